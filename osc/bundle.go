package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

const bundleTagString = "#bundle"

// bundleHeader is "#bundle" followed by its null terminator, 8 bytes.
var bundleHeader = appendPaddedString(nil, bundleTagString)

// minBundleSize is the header plus the time tag.
var minBundleSize = len(bundleHeader) + bit64Size

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle holding the given elements.
func NewBundle(tt Timetag, elements ...Packet) *Bundle {
	return &Bundle{Timetag: tt, Elements: elements}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(p Packet) error {
	switch t := p.(type) {
	case *Message:
		if t == nil {
			return fmt.Errorf("cannot append a nil message")
		}
	case *Bundle:
		if t == nil {
			return fmt.Errorf("cannot append a nil bundle")
		}
	default:
		return fmt.Errorf("unsupported OSC packet type %T: only Bundle and Message are supported", p)
	}
	b.Elements = append(b.Elements, p)
	return nil
}

// Equals compares the element structure and contents of two bundles. The
// time tags are deliberately not compared.
func (b *Bundle) Equals(o *Bundle) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.Elements) != len(o.Elements) {
		return false
	}
	for i := range b.Elements {
		if !PacketsEqual(b.Elements[i], o.Elements[i]) {
			return false
		}
	}
	return true
}

// Messages returns every message in the bundle and its nested bundles, in
// the order they appear on the wire.
func (b *Bundle) Messages() []*Message {
	var out []*Message
	b.walk(func(m *Message) { out = append(out, m) })
	return out
}

func (b *Bundle) walk(fn func(*Message)) {
	for _, elem := range b.Elements {
		switch p := elem.(type) {
		case *Message:
			fn(p)
		case *Bundle:
			p.walk(fn)
		}
	}
}

// String implements the fmt.Stringer interface.
func (b *Bundle) String() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "#bundle %s [", b.Timetag)
	for i, elem := range b.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elem.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// MarshalBinary serializes the bundle using the standard OSC types. Use a
// Codec for bundles carrying custom types.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return b.appendBinary(defaultRegistry(), nil)
}

// appendBinary serializes the OSC bundle with the following format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) appendBinary(r *Registry, data []byte) ([]byte, error) {
	data = append(data, bundleHeader...)
	data = binary.BigEndian.AppendUint64(data, uint64(b.Timetag))

	for i, elem := range b.Elements {
		if elem == nil {
			return nil, fmt.Errorf("bundle element %d is nil", i)
		}
		// Reserve the length prefix and fill it in once the element is written.
		start := len(data)
		data = append(data, 0, 0, 0, 0)
		var err error
		data, err = elem.appendBinary(r, data)
		if err != nil {
			return nil, err
		}
		n := len(data) - start - bit32Size
		if n > math.MaxInt32 {
			return nil, fmt.Errorf("bundle element %d is too large: %d bytes", i, n)
		}
		binary.BigEndian.PutUint32(data[start:], uint32(n))
	}
	return data, nil
}

// decodeBundle parses one OSC bundle that occupies all of data. Elements are
// decoded in wire order; the first malformed element aborts the decode.
func decodeBundle(r *Registry, data []byte) (*Bundle, error) {
	if len(data) < minBundleSize {
		return nil, malformedf("bundle needs at least %d bytes, have %d", minBundleSize, len(data))
	}
	if !bytes.Equal(data[:len(bundleHeader)], bundleHeader) {
		return nil, malformedf("invalid bundle start tag %q", data[:len(bundleHeader)])
	}
	data = data[len(bundleHeader):]

	b := &Bundle{Timetag: Timetag(binary.BigEndian.Uint64(data))}
	data = data[bit64Size:]

	for len(data) > 0 {
		if len(data) < bit32Size {
			return nil, malformedf("bundle element %d: truncated length prefix", len(b.Elements))
		}
		length := int64(int32(binary.BigEndian.Uint32(data)))
		data = data[bit32Size:]
		if length < 0 || length > int64(len(data)) {
			return nil, malformedf("bundle element %d: length %d overruns remaining %d bytes",
				len(b.Elements), length, len(data))
		}

		elem := data[:length]
		data = data[length:]

		var p Packet
		var err error
		switch {
		case isBundle(elem):
			p, err = decodeBundle(r, elem)
		case len(elem) > 0 && elem[0] == '/':
			p, err = decodeMessage(r, elem)
		default:
			err = malformedf("bundle element %d is neither a message nor a bundle", len(b.Elements))
		}
		if err != nil {
			return nil, err
		}
		b.Elements = append(b.Elements, p)
	}
	return b, nil
}

func isBundle(data []byte) bool {
	return bytes.HasPrefix(data, bundleHeader)
}
