package main

import (
	"testing"

	"github.com/showcontroller/oscroute/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	cases := []struct {
		word string
		want any
	}{
		{"42", int32(42)},
		{"-7", int32(-7)},
		{"0.5", float32(0.5)},
		{"1e3", float32(1000)},
		{"hello", "hello"},
		{"inf", "inf"},
		{"T", true},
		{"F", false},
		{"N", nil},
		{"I", osc.Impulse{}},
		{"i:0x10", int32(16)},
		{"h:8589934592", int64(8589934592)},
		{"f:2", float32(2)},
		{"d:0.25", float64(0.25)},
		{"s:42", "42"},
		{"s:", ""},
		{"S:name", osc.Symbol("name")},
		{"c:x", osc.Char('x')},
		{"b:deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"x:1", "x:1"},
	}
	for _, c := range cases {
		t.Run(c.word, func(t *testing.T) {
			got, err := parseArg(c.word)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseArgErrors(t *testing.T) {
	for _, word := range []string{"i:abc", "i:4294967296", "h:1.5", "f:x", "d:", "c:", "c:ab", "b:xyz"} {
		t.Run(word, func(t *testing.T) {
			_, err := parseArg(word)
			require.Error(t, err)
		})
	}
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"1", "f:1", "one"})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), float32(1), "one"}, args)

	_, err = parseArgs([]string{"1", "i:one"})
	require.ErrorContains(t, err, `argument "i:one"`)
}
