package osc

import "fmt"

/*
Errors that can be returned by the osc package. Each error type implements Is,
so callers can test with errors.Is(err, osc.MalformedDataError{}).
*/

////////////////////////////////////////////////////////////////////////////////

// MalformedDataError is returned when bytes look like OSC but cannot be decoded:
// short buffers, bad headers, length prefixes that overrun the buffer or strings
// that are missing their terminator.
type MalformedDataError struct {
	Reason string
}

// Error returns a string representation of the error.
func (e MalformedDataError) Error() string {
	return "malformed OSC data: " + e.Reason
}

// Is returns true if the target error is a MalformedDataError.
func (e MalformedDataError) Is(target error) bool {
	_, ok := target.(MalformedDataError)
	return ok
}

func malformedf(format string, args ...any) error {
	return MalformedDataError{Reason: fmt.Sprintf(format, args...)}
}

// UnexpectedTypeError is returned when a type tag has no registered owner.
type UnexpectedTypeError struct {
	Tag byte
}

// Error returns a string representation of the error.
func (e UnexpectedTypeError) Error() string {
	return fmt.Sprintf("unexpected OSC type tag %q", e.Tag)
}

// Is returns true if the target error is an UnexpectedTypeError.
func (e UnexpectedTypeError) Is(target error) bool {
	_, ok := target.(UnexpectedTypeError)
	return ok
}

// UnsupportedValueError is returned when no registered type accepts a Go value
// on encode.
type UnsupportedValueError struct {
	Value any
}

func (e UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported OSC value type: %T", e.Value)
}

func (e UnsupportedValueError) Is(target error) bool {
	_, ok := target.(UnsupportedValueError)
	return ok
}

// TagAlreadyRegisteredError is returned by RegisterType when a static tag is
// already owned by another type.
type TagAlreadyRegisteredError struct {
	Tag   byte
	Owner string
}

// Error returns a string representation of the error.
func (e TagAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("type tag %q is already registered by %s", e.Tag, e.Owner)
}

// Is returns true if the target error is a TagAlreadyRegisteredError.
func (e TagAlreadyRegisteredError) Is(target error) bool {
	_, ok := target.(TagAlreadyRegisteredError)
	return ok
}

// ReservedTagError is returned by RegisterType when a custom type claims a tag
// reserved by OSC 1.0/1.1.
type ReservedTagError struct {
	Tag byte
}

// Error returns a string representation of the error.
func (e ReservedTagError) Error() string {
	return fmt.Sprintf("type tag %q is reserved", e.Tag)
}

// Is returns true if the target error is a ReservedTagError.
func (e ReservedTagError) Is(target error) bool {
	_, ok := target.(ReservedTagError)
	return ok
}

// MaskMismatchError is returned by Masked when a value does not have the type
// the mask expects at that position.
type MaskMismatchError struct {
	Index int
	Want  Mask
	Got   any
}

// Error returns a string representation of the error.
func (e MaskMismatchError) Error() string {
	return fmt.Sprintf("argument %d: expected %s, found %T", e.Index, e.Want, e.Got)
}

// Is returns true if the target error is a MaskMismatchError.
func (e MaskMismatchError) Is(target error) bool {
	_, ok := target.(MaskMismatchError)
	return ok
}

// InvalidCountError is returned by Masked when the number of values cannot
// satisfy the mask.
type InvalidCountError struct {
	Min, Max int
	Got      int
}

// Error returns a string representation of the error.
func (e InvalidCountError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("expected %d arguments, found %d", e.Max, e.Got)
	}
	return fmt.Sprintf("expected %d to %d arguments, found %d", e.Min, e.Max, e.Got)
}

// Is returns true if the target error is an InvalidCountError.
func (e InvalidCountError) Is(target error) bool {
	_, ok := target.(InvalidCountError)
	return ok
}

// InvalidAddressError is returned when a method address cannot be registered.
type InvalidAddressError struct {
	Address string
	Reason  string
}

// Error returns a string representation of the error.
func (e InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid OSC method address %q: %s", e.Address, e.Reason)
}

// Is returns true if the target error is an InvalidAddressError.
func (e InvalidAddressError) Is(target error) bool {
	_, ok := target.(InvalidAddressError)
	return ok
}

// PatternSyntaxError is returned when an address pattern cannot be parsed.
type PatternSyntaxError struct {
	Component string
	Reason    string
}

// Error returns a string representation of the error.
func (e PatternSyntaxError) Error() string {
	return fmt.Sprintf("invalid address pattern component %q: %s", e.Component, e.Reason)
}

// Is returns true if the target error is a PatternSyntaxError.
func (e PatternSyntaxError) Is(target error) bool {
	_, ok := target.(PatternSyntaxError)
	return ok
}
