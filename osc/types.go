package osc

import (
	"fmt"
)

// Symbol is the OSC 1.0 alternate string type (tag 'S').
type Symbol string

// Char is a single ASCII character (tag 'c'), sent as a 32-bit integer.
type Char rune

// MIDI is a four byte MIDI message (tag 'm'): port id, status byte and two
// data bytes.
type MIDI struct {
	Port   byte
	Status byte
	Data1  byte
	Data2  byte
}

// Impulse (tag 'I', "Infinitum" in OSC 1.0) carries no data.
type Impulse struct{}

func builtinTypes() []TypeDescriptor {
	return []TypeDescriptor{
		{
			Name:    "int32",
			Tags:    "i",
			Accepts: func(v any) bool { _, ok := v.(int32); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('i')
				e.WriteInt32(v.(int32))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadInt32() },
		},
		{
			Name:    "float32",
			Tags:    "f",
			Accepts: func(v any) bool { _, ok := v.(float32); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('f')
				e.WriteFloat32(v.(float32))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadFloat32() },
		},
		{
			Name:    "string",
			Tags:    "s",
			Accepts: func(v any) bool { _, ok := v.(string); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('s')
				return e.WriteString(v.(string))
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadString() },
		},
		{
			Name:    "blob",
			Tags:    "b",
			Accepts: func(v any) bool { _, ok := v.([]byte); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('b')
				return e.WriteBlob(v.([]byte))
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadBlob() },
		},
		{
			Name:    "int64",
			Tags:    "h",
			Accepts: func(v any) bool { _, ok := v.(int64); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('h')
				e.WriteInt64(v.(int64))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadInt64() },
		},
		{
			Name:    "timetag",
			Tags:    "t",
			Accepts: func(v any) bool { _, ok := v.(Timetag); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('t')
				e.WriteUint64(uint64(v.(Timetag)))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) {
				v, err := d.ReadUint64()
				return Timetag(v), err
			},
		},
		{
			Name:    "double",
			Tags:    "d",
			Accepts: func(v any) bool { _, ok := v.(float64); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('d')
				e.WriteFloat64(v.(float64))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) { return d.ReadFloat64() },
		},
		{
			Name:    "symbol",
			Tags:    "S",
			Accepts: func(v any) bool { _, ok := v.(Symbol); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('S')
				return e.WriteString(string(v.(Symbol)))
			},
			Decode: func(d *Decoder, _ byte) (any, error) {
				s, err := d.ReadString()
				return Symbol(s), err
			},
		},
		{
			Name:    "char",
			Tags:    "c",
			Accepts: func(v any) bool { _, ok := v.(Char); return ok },
			Encode: func(e *Encoder, v any) error {
				c := v.(Char)
				if c < 0 || c > 0x7f {
					return fmt.Errorf("char %q is not ASCII", rune(c))
				}
				e.WriteTag('c')
				e.WriteInt32(int32(c))
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) {
				v, err := d.ReadInt32()
				return Char(v), err
			},
		},
		{
			Name:    "midi",
			Tags:    "m",
			Accepts: func(v any) bool { _, ok := v.(MIDI); return ok },
			Encode: func(e *Encoder, v any) error {
				m := v.(MIDI)
				e.WriteTag('m')
				e.WriteBytes([]byte{m.Port, m.Status, m.Data1, m.Data2})
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) {
				b, err := d.ReadBytes(bit32Size)
				if err != nil {
					return nil, err
				}
				return MIDI{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]}, nil
			},
		},
		{
			Name:    "bool",
			Tags:    "TF",
			Accepts: func(v any) bool { _, ok := v.(bool); return ok },
			Encode: func(e *Encoder, v any) error {
				if v.(bool) {
					e.WriteTag('T')
				} else {
					e.WriteTag('F')
				}
				return nil
			},
			Decode: func(_ *Decoder, tag byte) (any, error) { return tag == 'T', nil },
		},
		{
			Name:    "null",
			Tags:    "N",
			Accepts: func(v any) bool { return v == nil },
			Encode: func(e *Encoder, _ any) error {
				e.WriteTag('N')
				return nil
			},
			Decode: func(*Decoder, byte) (any, error) { return nil, nil },
		},
		{
			Name:    "impulse",
			Tags:    "I",
			Accepts: func(v any) bool { _, ok := v.(Impulse); return ok },
			Encode: func(e *Encoder, _ any) error {
				e.WriteTag('I')
				return nil
			},
			Decode: func(*Decoder, byte) (any, error) { return Impulse{}, nil },
		},
		{
			Name:    "array",
			Tags:    "[",
			Accepts: func(v any) bool { _, ok := v.([]any); return ok },
			Encode: func(e *Encoder, v any) error {
				e.WriteTag('[')
				for _, elem := range v.([]any) {
					if err := e.Encode(elem); err != nil {
						return err
					}
				}
				e.WriteTag(']')
				return nil
			},
			Decode: func(d *Decoder, _ byte) (any, error) {
				values := []any{}
				for {
					tag, ok := d.NextTag()
					if !ok {
						return nil, malformedf("array is missing its closing ']'")
					}
					if tag == ']' {
						return values, nil
					}
					v, err := d.Decode(tag)
					if err != nil {
						return nil, err
					}
					values = append(values, v)
				}
			},
		},
	}
}

////
// Custom types
////

// NewBlobType returns a descriptor for an application type T carried on the
// blob substrate under its own tag.
func NewBlobType[T any](name string, tag byte, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) TypeDescriptor {
	return TypeDescriptor{
		Name:    name,
		Tags:    string(tag),
		Accepts: func(v any) bool { _, ok := v.(T); return ok },
		Encode: func(e *Encoder, v any) error {
			b, err := marshal(v.(T))
			if err != nil {
				return fmt.Errorf("encoding %s: %w", name, err)
			}
			e.WriteTag(tag)
			return e.WriteBlob(b)
		},
		Decode: func(d *Decoder, _ byte) (any, error) {
			b, err := d.ReadBlob()
			if err != nil {
				return nil, err
			}
			v, err := unmarshal(b)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", name, err)
			}
			return v, nil
		},
	}
}

// NewStringType returns a descriptor for an application type T carried on
// the string substrate under its own tag.
func NewStringType[T any](name string, tag byte, format func(T) (string, error), parse func(string) (T, error)) TypeDescriptor {
	return TypeDescriptor{
		Name:    name,
		Tags:    string(tag),
		Accepts: func(v any) bool { _, ok := v.(T); return ok },
		Encode: func(e *Encoder, v any) error {
			s, err := format(v.(T))
			if err != nil {
				return fmt.Errorf("encoding %s: %w", name, err)
			}
			e.WriteTag(tag)
			return e.WriteString(s)
		},
		Decode: func(d *Decoder, _ byte) (any, error) {
			s, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			v, err := parse(s)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", name, err)
			}
			return v, nil
		},
	}
}
