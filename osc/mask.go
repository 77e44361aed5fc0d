package osc

import "fmt"

type maskKind int

const (
	maskInt32 maskKind = iota + 1
	maskFloat32
	maskString
	maskBlob
	maskInt64
	maskTimetag
	maskDouble
	maskSymbol
	maskChar
	maskMIDI
	maskBool
	maskNull
	maskImpulse
	maskArray
	maskNumber
	maskNumberOrBool
	maskTag
)

var maskNames = map[maskKind]string{
	maskInt32:        "int32",
	maskFloat32:      "float32",
	maskString:       "string",
	maskBlob:         "blob",
	maskInt64:        "int64",
	maskTimetag:      "timetag",
	maskDouble:       "double",
	maskSymbol:       "symbol",
	maskChar:         "char",
	maskMIDI:         "midi",
	maskBool:         "bool",
	maskNull:         "null",
	maskImpulse:      "impulse",
	maskArray:        "array",
	maskNumber:       "number",
	maskNumberOrBool: "number or bool",
}

// Mask is one slot of an expected argument shape, used by Message.Masked.
type Mask struct {
	kind     maskKind
	tag      byte
	optional bool
}

// Masks for the core and extended OSC types.
var (
	MaskInt32   = Mask{kind: maskInt32}
	MaskFloat32 = Mask{kind: maskFloat32}
	MaskString  = Mask{kind: maskString}
	MaskBlob    = Mask{kind: maskBlob}
	MaskInt64   = Mask{kind: maskInt64}
	MaskTimetag = Mask{kind: maskTimetag}
	MaskDouble  = Mask{kind: maskDouble}
	MaskSymbol  = Mask{kind: maskSymbol}
	MaskChar    = Mask{kind: maskChar}
	MaskMIDI    = Mask{kind: maskMIDI}
	MaskBool    = Mask{kind: maskBool}
	MaskNull    = Mask{kind: maskNull}
	MaskImpulse = Mask{kind: maskImpulse}
	MaskArray   = Mask{kind: maskArray}

	// MaskNumber matches int32, float32, int64 and float64 but not bool.
	MaskNumber = Mask{kind: maskNumber}
	// MaskNumberOrBool matches everything MaskNumber does, and bool.
	MaskNumberOrBool = Mask{kind: maskNumberOrBool}
)

// MaskTag matches values whose registered type writes the given tag. It is
// how custom types are masked.
func MaskTag(tag byte) Mask {
	return Mask{kind: maskTag, tag: tag}
}

// Optional marks a mask slot as optional: the value may be missing from the
// end of the argument list, yielding nil.
func Optional(m Mask) Mask {
	m.optional = true
	return m
}

func (m Mask) String() string {
	name := maskNames[m.kind]
	if m.kind == maskTag {
		name = fmt.Sprintf("tag %q", m.tag)
	}
	if m.optional {
		return name + "?"
	}
	return name
}

func (m Mask) matches(r *Registry, v any) bool {
	switch m.kind {
	case maskInt32:
		_, ok := v.(int32)
		return ok
	case maskFloat32:
		_, ok := v.(float32)
		return ok
	case maskString:
		_, ok := v.(string)
		return ok
	case maskBlob:
		_, ok := v.([]byte)
		return ok
	case maskInt64:
		_, ok := v.(int64)
		return ok
	case maskTimetag:
		_, ok := v.(Timetag)
		return ok
	case maskDouble:
		_, ok := v.(float64)
		return ok
	case maskSymbol:
		_, ok := v.(Symbol)
		return ok
	case maskChar:
		_, ok := v.(Char)
		return ok
	case maskMIDI:
		_, ok := v.(MIDI)
		return ok
	case maskBool:
		_, ok := v.(bool)
		return ok
	case maskNull:
		return v == nil
	case maskImpulse:
		_, ok := v.(Impulse)
		return ok
	case maskArray:
		_, ok := v.([]any)
		return ok
	case maskNumber:
		return isNumber(v)
	case maskNumberOrBool:
		_, ok := v.(bool)
		return ok || isNumber(v)
	case maskTag:
		tags, err := r.TypeTag(v)
		return err == nil && len(tags) == 1 && tags[0] == m.tag
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int32, float32, int64, float64:
		return true
	}
	return false
}

// Masked checks the message arguments against an expected shape and returns
// them when every argument matches its slot, in order. More arguments than
// slots, or a missing argument in a slot that is not optional, is an
// InvalidCountError; a type mismatch is a MaskMismatchError. Missing optional
// slots are returned as nil.
func (msg *Message) Masked(r *Registry, masks ...Mask) ([]any, error) {
	return MaskValues(r, msg.Arguments, masks...)
}

// MaskValues applies masks to a list of values. See Message.Masked.
func MaskValues(r *Registry, values []any, masks ...Mask) ([]any, error) {
	r = registryOrDefault(r)
	required := 0
	for i, m := range masks {
		if !m.optional {
			required = i + 1
		}
	}
	if len(values) > len(masks) || len(values) < required {
		return nil, InvalidCountError{Min: required, Max: len(masks), Got: len(values)}
	}

	out := make([]any, len(masks))
	for i, m := range masks {
		if i >= len(values) {
			continue
		}
		if !m.matches(r, values[i]) {
			return nil, MaskMismatchError{Index: i, Want: m, Got: values[i]}
		}
		out[i] = values[i]
	}
	return out, nil
}
