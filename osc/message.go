package osc

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []any
}

// Verify that Message implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(address string, args ...any) *Message {
	return &Message{Address: address, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (msg *Message) Append(args ...any) {
	msg.Arguments = append(msg.Arguments, args...)
}

// Equals returns true if the given OSC Message m is equal to the current OSC
// Message: same address and pairwise equal arguments, in order.
func (msg *Message) Equals(m *Message) bool {
	if msg == nil || m == nil {
		return msg == m
	}
	if msg.Address != m.Address || len(msg.Arguments) != len(m.Arguments) {
		return false
	}
	for i := range msg.Arguments {
		if !valuesEqual(msg.Arguments[i], m.Arguments[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares two argument values. Blobs and arrays compare by
// content, so a nil blob equals an empty one.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Clear clears the OSC address and all arguments.
func (msg *Message) Clear() {
	msg.Address = ""
	msg.ClearData()
}

// ClearData removes all arguments from the OSC Message.
func (msg *Message) ClearData() {
	msg.Arguments = msg.Arguments[:0]
}

// CountArguments returns the number of arguments.
func (msg *Message) CountArguments() int {
	return len(msg.Arguments)
}

// Match returns true if the address pattern of the message matches the given
// literal address. The match is case sensitive.
func (msg *Message) Match(address string) bool {
	return MatchAddress(msg.Address, address)
}

// TypeTags returns the type tag string, including the leading ','.
func (msg *Message) TypeTags(r *Registry) (string, error) {
	e := newEncoder(registryOrDefault(r))
	for _, arg := range msg.Arguments {
		if err := e.Encode(arg); err != nil {
			return "", err
		}
	}
	return string(e.tags), nil
}

// String implements the fmt.Stringer interface.
func (msg *Message) String() string {
	if msg == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(msg.Address)
	for _, arg := range msg.Arguments {
		sb.WriteByte(' ')
		writeValue(&sb, arg)
	}
	return sb.String()
}

func writeValue(sb *strings.Builder, arg any) {
	switch v := arg.(type) {
	case nil:
		sb.WriteString("Nil")
	case []byte:
		fmt.Fprintf(sb, "blob(%d)", len(v))
	case string:
		fmt.Fprintf(sb, "%q", v)
	case Symbol:
		fmt.Fprintf(sb, "'%s", string(v))
	case Char:
		fmt.Fprintf(sb, "%q", rune(v))
	case Impulse:
		sb.WriteString("Impulse")
	case MIDI:
		fmt.Fprintf(sb, "midi(%d %02x %02x %02x)", v.Port, v.Status, v.Data1, v.Data2)
	case []any:
		sb.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, elem)
		}
		sb.WriteByte(']')
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}

// MarshalBinary serializes the message using the standard OSC types. Use a
// Codec for messages carrying custom types.
func (msg *Message) MarshalBinary() ([]byte, error) {
	return msg.appendBinary(defaultRegistry(), nil)
}

// appendBinary serializes the OSC message with the following format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (msg *Message) appendBinary(r *Registry, b []byte) ([]byte, error) {
	if !strings.HasPrefix(msg.Address, "/") {
		return nil, InvalidAddressError{Address: msg.Address, Reason: "must start with '/'"}
	}
	if strings.IndexByte(msg.Address, 0) >= 0 {
		return nil, InvalidAddressError{Address: msg.Address, Reason: "contains a null byte"}
	}

	e := newEncoder(r)
	for i, arg := range msg.Arguments {
		if err := e.Encode(arg); err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", msg.Address, i, err)
		}
	}

	b = appendPaddedString(b, msg.Address)
	b = appendPaddedString(b, string(e.tags))
	return append(b, e.payload...), nil
}

// decodeMessage parses one OSC message that occupies all of data.
func decodeMessage(r *Registry, data []byte) (*Message, error) {
	d := newDecoder(r, data)
	addr, err := d.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading address pattern: %w", err)
	}
	if !strings.HasPrefix(addr, "/") {
		return nil, malformedf("address pattern %q does not start with '/'", addr)
	}
	if d.Remaining() == 0 {
		return nil, malformedf("message %s has no type tag string", addr)
	}
	tags, err := d.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading type tags of %s: %w", addr, err)
	}
	if !strings.HasPrefix(tags, ",") {
		return nil, malformedf("type tag string %q does not start with ','", tags)
	}
	d.tags = tags[1:]

	msg := &Message{Address: addr}
	if len(d.tags) > 0 {
		msg.Arguments = make([]any, 0, len(d.tags))
	}
	for {
		tag, ok := d.NextTag()
		if !ok {
			break
		}
		v, err := d.Decode(tag)
		if err != nil {
			return nil, fmt.Errorf("reading argument %d (%c) of %s: %w", len(msg.Arguments), tag, addr, err)
		}
		msg.Arguments = append(msg.Arguments, v)
	}
	if d.Remaining() != 0 {
		return nil, malformedf("%d trailing bytes after arguments of %s", d.Remaining(), addr)
	}
	return msg, nil
}

// PrintMessage pretty prints a Message to the standard output.
func PrintMessage(msg *Message) {
	fmt.Println(msg.String())
}
