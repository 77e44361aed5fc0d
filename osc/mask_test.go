package osc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMasked(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterType(pointType('p')))

	cases := []struct {
		assertion string
		values    []any
		masks     []Mask
		want      []any
		err       error
	}{
		{
			"exact match",
			[]any{int32(1), "a", float32(2)},
			[]Mask{MaskInt32, MaskString, MaskFloat32},
			[]any{int32(1), "a", float32(2)},
			nil,
		},
		{
			"extended types",
			[]any{int64(1), float64(2), Symbol("s"), Char('c'), MIDI{}, Immediate, Impulse{}, nil, []any{}, []byte{1}},
			[]Mask{MaskInt64, MaskDouble, MaskSymbol, MaskChar, MaskMIDI, MaskTimetag, MaskImpulse, MaskNull, MaskArray, MaskBlob},
			[]any{int64(1), float64(2), Symbol("s"), Char('c'), MIDI{}, Immediate, Impulse{}, nil, []any{}, []byte{1}},
			nil,
		},
		{
			"no values no masks",
			nil,
			nil,
			[]any{},
			nil,
		},
		{
			"too many values",
			[]any{int32(1), int32(2)},
			[]Mask{MaskInt32},
			nil,
			InvalidCountError{},
		},
		{
			"missing required value",
			[]any{int32(1)},
			[]Mask{MaskInt32, MaskString},
			nil,
			InvalidCountError{},
		},
		{
			"missing optional values",
			[]any{"a"},
			[]Mask{MaskString, Optional(MaskInt32), Optional(MaskBool)},
			[]any{"a", nil, nil},
			nil,
		},
		{
			"present optional value",
			[]any{"a", int32(3)},
			[]Mask{MaskString, Optional(MaskInt32)},
			[]any{"a", int32(3)},
			nil,
		},
		{
			"optional value of wrong type",
			[]any{"a", "b"},
			[]Mask{MaskString, Optional(MaskInt32)},
			nil,
			MaskMismatchError{},
		},
		{
			"type mismatch",
			[]any{int32(1), int32(2)},
			[]Mask{MaskInt32, MaskString},
			nil,
			MaskMismatchError{},
		},
		{
			"number matches every numeric type",
			[]any{int32(1), float32(2), int64(3), float64(4)},
			[]Mask{MaskNumber, MaskNumber, MaskNumber, MaskNumber},
			[]any{int32(1), float32(2), int64(3), float64(4)},
			nil,
		},
		{
			"number does not match bool",
			[]any{true},
			[]Mask{MaskNumber},
			nil,
			MaskMismatchError{},
		},
		{
			"number or bool",
			[]any{false, int32(1)},
			[]Mask{MaskNumberOrBool, MaskNumberOrBool},
			[]any{false, int32(1)},
			nil,
		},
		{
			"number does not match string",
			[]any{"1"},
			[]Mask{MaskNumberOrBool},
			nil,
			MaskMismatchError{},
		},
		{
			"custom tag",
			[]any{point{X: 1, Y: 2}},
			[]Mask{MaskTag('p')},
			[]any{point{X: 1, Y: 2}},
			nil,
		},
		{
			"custom tag mismatch",
			[]any{int32(1)},
			[]Mask{MaskTag('p')},
			nil,
			MaskMismatchError{},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			got, err := NewMessage("/m", c.values...).Masked(r, c.masks...)
			if c.err != nil {
				require.ErrorIs(t, err, c.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestMaskErrorDetails(t *testing.T) {
	r := NewRegistry()

	_, err := MaskValues(r, []any{"a", int32(1)}, MaskString, MaskFloat32)
	require.Equal(t, MaskMismatchError{Index: 1, Want: MaskFloat32, Got: int32(1)}, err)
	require.Equal(t, "argument 1: expected float32, found int32", err.Error())

	_, err = MaskValues(r, nil, MaskString, Optional(MaskInt32))
	require.Equal(t, InvalidCountError{Min: 1, Max: 2, Got: 0}, err)
	require.Equal(t, "expected 1 to 2 arguments, found 0", err.Error())
}

func TestMaskString(t *testing.T) {
	require.Equal(t, "int32", MaskInt32.String())
	require.Equal(t, "number or bool?", Optional(MaskNumberOrBool).String())
	require.Equal(t, "tag 'p'", MaskTag('p').String())
}

func TestMaskedNilRegistry(t *testing.T) {
	got, err := NewMessage("/m", int32(1), "a").Masked(nil, MaskTag('i'), MaskString)
	require.NoError(t, err)
	require.Equal(t, []any{int32(1), "a"}, got)

	_, err = MaskValues(nil, []any{"a"}, MaskTag('i'))
	require.ErrorIs(t, err, MaskMismatchError{})
}
