package osc

import (
	"encoding"
	"fmt"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	fmt.Stringer
	encoding.BinaryMarshaler

	appendBinary(r *Registry, b []byte) ([]byte, error)
}

// PacketsEqual compares two packets structurally. Bundle time tags are not
// compared.
func PacketsEqual(a, b Packet) bool {
	switch pa := a.(type) {
	case *Message:
		pb, ok := b.(*Message)
		return ok && pa.Equals(pb)
	case *Bundle:
		pb, ok := b.(*Bundle)
		return ok && pa.Equals(pb)
	}
	return a == nil && b == nil
}

// Codec converts packets to and from their wire representation using the
// value types of one Registry. A Codec is safe for concurrent use.
type Codec struct {
	types *Registry
}

// NewCodec returns a codec backed by r. A nil registry gets the standard OSC
// types.
func NewCodec(r *Registry) *Codec {
	if r == nil {
		r = NewRegistry()
	}
	return &Codec{types: r}
}

// Registry returns the type registry of the codec.
func (c *Codec) Registry() *Registry {
	return c.types
}

// Encode serializes p.
func (c *Codec) Encode(p Packet) ([]byte, error) {
	return c.Append(nil, p)
}

// Append serializes p and appends it to b.
func (c *Codec) Append(b []byte, p Packet) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot encode a nil packet")
	}
	return p.appendBinary(c.types, b)
}

// Decode parses a packet. It returns a nil packet and a nil error when data
// does not look like OSC at all, that is, when it starts with neither '/' nor
// '#'. Data that looks like OSC but cannot be parsed returns an error.
func (c *Codec) Decode(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, nil
	}
	switch data[0] {
	case '/':
		return decodeMessage(c.types, data)
	case '#':
		return decodeBundle(c.types, data)
	}
	return nil, nil
}

// DecodeMessage parses data as a single OSC message.
func (c *Codec) DecodeMessage(data []byte) (*Message, error) {
	return decodeMessage(c.types, data)
}

// DecodeBundle parses data as an OSC bundle.
func (c *Codec) DecodeBundle(data []byte) (*Bundle, error) {
	return decodeBundle(c.types, data)
}
