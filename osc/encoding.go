package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

const (
	bit32Size = 4
	bit64Size = 8
)

////
// Encoder
////

// Encoder accumulates the type tag string and the argument payload of one
// message. Type descriptors write their tags and bytes through it.
type Encoder struct {
	types   *Registry
	tags    []byte
	payload []byte
}

func newEncoder(r *Registry) *Encoder {
	return &Encoder{types: r, tags: []byte{','}}
}

// WriteTag appends a type tag character.
func (e *Encoder) WriteTag(tag byte) {
	e.tags = append(e.tags, tag)
}

// WriteInt32 appends a big-endian int32.
func (e *Encoder) WriteInt32(v int32) {
	e.payload = binary.BigEndian.AppendUint32(e.payload, uint32(v))
}

// WriteInt64 appends a big-endian int64.
func (e *Encoder) WriteInt64(v int64) {
	e.payload = binary.BigEndian.AppendUint64(e.payload, uint64(v))
}

// WriteUint64 appends a big-endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	e.payload = binary.BigEndian.AppendUint64(e.payload, v)
}

// WriteFloat32 appends a big-endian IEEE 754 float32.
func (e *Encoder) WriteFloat32(v float32) {
	e.payload = binary.BigEndian.AppendUint32(e.payload, math.Float32bits(v))
}

// WriteFloat64 appends a big-endian IEEE 754 float64.
func (e *Encoder) WriteFloat64(v float64) {
	e.payload = binary.BigEndian.AppendUint64(e.payload, math.Float64bits(v))
}

// WriteString appends a null terminated, null padded OSC string. Strings
// containing a null byte cannot be represented.
func (e *Encoder) WriteString(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return malformedf("string %q contains a null byte", s)
	}
	e.payload = appendPaddedString(e.payload, s)
	return nil
}

// WriteBlob appends a length prefixed, null padded OSC blob.
func (e *Encoder) WriteBlob(b []byte) error {
	if len(b) > math.MaxInt32 {
		return malformedf("blob of %d bytes is too large", len(b))
	}
	e.payload = appendBlob(e.payload, b)
	return nil
}

// WriteBytes appends raw bytes without any length or padding.
func (e *Encoder) WriteBytes(b []byte) {
	e.payload = append(e.payload, b...)
}

// Encode writes a nested value through the registry. It is used by
// container types such as arrays.
func (e *Encoder) Encode(v any) error {
	td := e.types.lookupValue(v)
	if td == nil {
		return UnsupportedValueError{Value: v}
	}
	return td.Encode(e, v)
}

////
// Decoder
////

// Decoder is a bounds checked cursor over the argument payload of one
// message, together with the remaining type tags.
type Decoder struct {
	types *Registry
	tags  string
	ti    int
	data  []byte
	off   int
}

func newDecoder(r *Registry, data []byte) *Decoder {
	return &Decoder{types: r, data: data}
}

// Remaining returns the number of payload bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

// NextTag consumes and returns the next type tag.
func (d *Decoder) NextTag() (byte, bool) {
	if d.ti >= len(d.tags) {
		return 0, false
	}
	tag := d.tags[d.ti]
	d.ti++
	return tag, true
}

// ReadBytes consumes exactly n raw bytes. The returned slice aliases the
// packet buffer.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, malformedf("need %d bytes at offset %d, have %d", n, d.off, d.Remaining())
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

// ReadInt32 consumes a big-endian int32.
func (d *Decoder) ReadInt32() (int32, error) {
	b, err := d.ReadBytes(bit32Size)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadUint64 consumes a big-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.ReadBytes(bit64Size)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadInt64 consumes a big-endian int64.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadFloat32 consumes a big-endian float32.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadInt32()
	return math.Float32frombits(uint32(v)), err
}

// ReadFloat64 consumes a big-endian float64.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString consumes a null terminated, null padded OSC string.
func (d *Decoder) ReadString() (string, error) {
	s, n, err := parsePaddedString(d.data[d.off:])
	if err != nil {
		return "", err
	}
	d.off += n
	return s, nil
}

// ReadBlob consumes a length prefixed OSC blob. The returned slice is a copy
// and never includes the padding bytes.
func (d *Decoder) ReadBlob() ([]byte, error) {
	b, n, err := parseBlob(d.data[d.off:])
	if err != nil {
		return nil, err
	}
	d.off += n
	return b, nil
}

// Decode decodes one value for tag through the registry.
func (d *Decoder) Decode(tag byte) (any, error) {
	if tag == ']' {
		return nil, malformedf("unbalanced ']' in type tags")
	}
	td := d.types.lookupTag(tag)
	if td == nil {
		return nil, UnexpectedTypeError{Tag: tag}
	}
	return td.Decode(d, tag)
}

////
// De/Encoding functions
////

// parsePaddedString reads a padded string from the given slice and returns
// the string and the number of bytes consumed including the padding.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, malformedf("string is missing its null terminator")
	}
	n := pos + 1
	n += padBytesNeeded(n)
	if n > len(data) {
		return "", 0, malformedf("string %q is missing %d padding bytes", data[:pos], n-len(data))
	}
	return string(data[:pos]), n, nil
}

// appendPaddedString appends str, a null terminator and enough null bytes to
// reach a multiple of 4.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)
	for i := padBytesNeeded(len(str) + 1); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// parseBlob parses an OSC blob from data. Padding bytes are consumed but not
// returned.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, malformedf("blob length needs %d bytes, have %d", bit32Size, len(data))
	}
	blobLen := int64(int32(binary.BigEndian.Uint32(data)))
	if blobLen < 0 {
		return nil, 0, malformedf("negative blob length %d", blobLen)
	}
	data = data[bit32Size:]
	if blobLen > int64(len(data)) {
		return nil, 0, malformedf("blob length %d exceeds remaining %d bytes", blobLen, len(data))
	}
	n := bit32Size + int(blobLen)
	pad := padBytesNeeded(n)
	if int(blobLen)+pad > len(data) {
		return nil, 0, malformedf("blob is missing %d padding bytes", int(blobLen)+pad-len(data))
	}
	blob := make([]byte, blobLen)
	copy(blob, data)
	return blob, n + pad, nil
}

// appendBlob appends data as an OSC blob. If the length of data isn't 32-bit
// aligned, padding bytes are added.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	for i := padBytesNeeded(len(data)); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - elementLen%4) % 4
}
