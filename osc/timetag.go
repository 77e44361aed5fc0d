package osc

import "time"

const (
	// Immediate is the time tag value consisting of 63 zero bits followed by a
	// one in the least significant bit, a special case meaning "immediately."
	Immediate Timetag = 1

	secondsFrom1900To1970 = 2208988800
)

// Timetag represents an OSC Time Tag.
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewTimetag returns the OSC time tag for t.
func NewTimetag(t time.Time) Timetag {
	secs := uint64(t.Unix()+secondsFrom1900To1970) << 32
	frac := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Timetag(secs | frac)
}

// Time returns the time tag as a time.Time.
func (t Timetag) Time() time.Time {
	secs := int64(t.SecondsSinceEpoch()) - secondsFrom1900To1970
	nsec := (uint64(t.FractionalSecond()) * uint64(time.Second)) >> 32
	return time.Unix(secs, int64(nsec))
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// IsImmediate reports whether the time tag means "immediately".
func (t Timetag) IsImmediate() bool {
	return t <= Immediate
}

// ExpiresIn calculates the duration until the time tag is reached. It
// returns zero for immediate time tags and time tags in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t.IsImmediate() {
		return 0
	}
	d := time.Until(t.Time())
	if d <= 0 {
		return 0
	}
	return d
}

func (t Timetag) String() string {
	if t.IsImmediate() {
		return "immediate"
	}
	return t.Time().UTC().Format(time.RFC3339Nano)
}
