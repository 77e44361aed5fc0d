package osc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageTransmitScenario(t *testing.T) {
	sender := NewCodec(nil)
	receiver := NewCodec(nil)

	msg := NewMessage("/some/address/method", "Test string", int32(123))
	data, err := sender.Encode(msg)
	require.NoError(t, err)
	require.Len(t, data, 44)

	p, err := receiver.Decode(data)
	require.NoError(t, err)
	got, ok := p.(*Message)
	require.True(t, ok)
	require.Equal(t, "/some/address/method", got.Address)
	require.Equal(t, []any{"Test string", int32(123)}, got.Arguments)
	require.True(t, msg.Equals(got))
}

func TestMessageRoundTrip(t *testing.T) {
	cases := []struct {
		assertion string
		msg       *Message
	}{
		{"no arguments", NewMessage("/a")},
		{"core types", NewMessage("/core", int32(-7), float32(0.5), "osc", []byte{1, 2, 3, 4, 5})},
		{"extended types", NewMessage("/ext",
			int64(1<<40), Timetag(0xdeadbeef00000001), float64(3.25), Symbol("sym"),
			Char('z'), MIDI{Port: 2, Status: 0x80, Data1: 64, Data2: 0})},
		{"tag only types", NewMessage("/flags", true, false, nil, Impulse{})},
		{"empty blob and string", NewMessage("/empty", []byte{}, "")},
		{"arrays", NewMessage("/arr", []any{}, []any{int32(1), []any{"x", true}}, int32(2))},
		{"long address", NewMessage("/a/very/long/address/with/many/levels/and/a/method", int32(1))},
	}
	codec := NewCodec(nil)
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			data, err := codec.Encode(c.msg)
			require.NoError(t, err)
			require.Zero(t, len(data)%4)

			got, err := codec.DecodeMessage(data)
			require.NoError(t, err)
			require.True(t, c.msg.Equals(got), "want %s, got %s", c.msg, got)

			again, err := codec.Encode(got)
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestMessageWireFormat(t *testing.T) {
	codec := NewCodec(nil)

	data, err := codec.Encode(NewMessage("/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("/a\x00\x00,\x00\x00\x00"), data)

	data, err = codec.Encode(NewMessage("/ab", int32(1), true))
	require.NoError(t, err)
	require.Equal(t, []byte("/ab\x00,iT\x00\x00\x00\x00\x01"), data)

	prefix := []byte{0xca, 0xfe, 0, 0}
	data, err = codec.Append(prefix, NewMessage("/a"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, prefix))
	require.Len(t, data, 12)
}

func TestMessageEncodeInvalidAddress(t *testing.T) {
	codec := NewCodec(nil)
	for _, addr := range []string{"", "a/b", "/a\x00b"} {
		_, err := codec.Encode(NewMessage(addr))
		require.ErrorIs(t, err, InvalidAddressError{}, addr)
	}
}

func TestDecodeMessageMalformed(t *testing.T) {
	cases := []struct {
		assertion string
		data      string
		want      error
	}{
		{"address without terminator", "/abc", MalformedDataError{}},
		{"address without slash", "a\x00\x00\x00,\x00\x00\x00", MalformedDataError{}},
		{"missing type tag string", "/a\x00\x00", MalformedDataError{}},
		{"type tags without comma", "/a\x00\x00i\x00\x00\x00\x00\x00\x00\x01", MalformedDataError{}},
		{"tag without payload", "/a\x00\x00,i\x00\x00", MalformedDataError{}},
		{"short payload", "/a\x00\x00,d\x00\x00\x00\x00\x00\x01", MalformedDataError{}},
		{"trailing bytes", "/a\x00\x00,\x00\x00\x00\x00\x00\x00\x00", MalformedDataError{}},
		{"unknown tag", "/a\x00\x00,x\x00\x00", UnexpectedTypeError{}},
		{"unterminated array", "/a\x00\x00,[i\x00\x00\x00\x00\x01", MalformedDataError{}},
		{"stray close bracket", "/a\x00\x00,]\x00\x00", MalformedDataError{}},
		{"blob overrun", "/a\x00\x00,b\x00\x00\x00\x00\x00\x10\x01\x02\x03\x04", MalformedDataError{}},
		{"unterminated string argument", "/a\x00\x00,s\x00\x00abcd", MalformedDataError{}},
	}
	codec := NewCodec(nil)
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			_, err := codec.DecodeMessage([]byte(c.data))
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestMessageHelpers(t *testing.T) {
	msg := NewMessage("/a/b")
	require.Equal(t, 0, msg.CountArguments())

	msg.Append(int32(1), "x")
	msg.Append(true, nil, []byte{1, 2})
	require.Equal(t, 5, msg.CountArguments())
	require.Equal(t, `/a/b 1 "x" true Nil blob(2)`, msg.String())

	tags, err := msg.TypeTags(NewRegistry())
	require.NoError(t, err)
	require.Equal(t, ",isTNb", tags)

	require.True(t, msg.Match("/a/b"))
	require.False(t, msg.Match("/a/c"))

	msg.ClearData()
	require.Equal(t, 0, msg.CountArguments())
	require.Equal(t, "/a/b", msg.Address)

	msg.Append(int32(1))
	msg.Clear()
	require.Equal(t, 0, msg.CountArguments())
	require.Equal(t, "", msg.Address)
}

func TestMessagePatternMatch(t *testing.T) {
	msg := NewMessage("/mixer/channel[1-4]/{gain,mute}")
	require.True(t, msg.Match("/mixer/channel2/gain"))
	require.True(t, msg.Match("/mixer/channel4/mute"))
	require.False(t, msg.Match("/mixer/channel5/gain"))
	require.False(t, msg.Match("/mixer/channel1/pan"))
}

func TestMessageString(t *testing.T) {
	cases := []struct {
		msg  *Message
		want string
	}{
		{NewMessage("/a"), "/a"},
		{NewMessage("/a", float32(1.5), int64(2)), "/a 1.5 2"},
		{NewMessage("/a", Symbol("s"), Char('c'), Impulse{}), `/a 's 'c' Impulse`},
		{NewMessage("/a", MIDI{Port: 1, Status: 0x90, Data1: 0x3c, Data2: 0x7f}), "/a midi(1 90 3c 7f)"},
		{NewMessage("/a", []any{int32(1), []any{"b"}}), `/a [1 ["b"]]`},
		{NewMessage("/a", Immediate), "/a immediate"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			require.Equal(t, c.want, c.msg.String())
		})
	}
	var nilMsg *Message
	require.Equal(t, "", nilMsg.String())
}

func TestMessageEquals(t *testing.T) {
	base := NewMessage("/a", int32(1), []byte{1}, []any{"x"})
	cases := []struct {
		assertion string
		other     *Message
		want      bool
	}{
		{"identical", NewMessage("/a", int32(1), []byte{1}, []any{"x"}), true},
		{"different address", NewMessage("/b", int32(1), []byte{1}, []any{"x"}), false},
		{"different value", NewMessage("/a", int32(2), []byte{1}, []any{"x"}), false},
		{"different type", NewMessage("/a", int64(1), []byte{1}, []any{"x"}), false},
		{"different blob", NewMessage("/a", int32(1), []byte{2}, []any{"x"}), false},
		{"different array", NewMessage("/a", int32(1), []byte{1}, []any{"y"}), false},
		{"fewer values", NewMessage("/a", int32(1)), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			require.Equal(t, c.want, base.Equals(c.other))
		})
	}

	require.True(t, NewMessage("/a", []byte(nil)).Equals(NewMessage("/a", []byte{})))
}

func TestMessageNilRegistry(t *testing.T) {
	msg := NewMessage("/a", int32(1), "b", true)
	tags, err := msg.TypeTags(nil)
	require.NoError(t, err)
	require.Equal(t, ",isT", tags)
}

func TestMessageMarshalBinary(t *testing.T) {
	msg := NewMessage("/a", int32(1), "b", Symbol("c"))
	got, err := msg.MarshalBinary()
	require.NoError(t, err)
	want, err := NewCodec(nil).Encode(msg)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = NewMessage("no-slash").MarshalBinary()
	require.ErrorIs(t, err, InvalidAddressError{})
}
