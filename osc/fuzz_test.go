package osc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzDecode(f *testing.F) {
	codec := NewCodec(nil)
	seeds := []Packet{
		NewMessage("/some/address/method", "Test string", int32(123)),
		NewMessage("/a", []byte{1, 2, 3}, []any{int32(1), []any{true}}, nil, Impulse{}),
		NewMessage("/x", int64(1), float64(2), Symbol("s"), Char('c'), MIDI{}, Immediate),
		nestedBundle(Immediate),
	}
	for _, p := range seeds {
		data, err := codec.Encode(p)
		require.NoError(f, err)
		f.Add(data)
	}
	f.Add([]byte("#bundle\x00"))
	f.Add([]byte("/a\x00\x00,b\x00\x00\xff\xff\xff\xff"))

	f.Fuzz(func(t *testing.T, data []byte) {
		p, err := codec.Decode(data)
		if err != nil || p == nil {
			return
		}
		// Anything that decodes and can be written again is stable from then on.
		encoded, err := codec.Encode(p)
		if err != nil {
			return
		}
		again, err := codec.Decode(encoded)
		require.NoError(t, err)
		reencoded, err := codec.Encode(again)
		require.NoError(t, err)
		require.Equal(t, encoded, reencoded)
	})
}
