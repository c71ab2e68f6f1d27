package tztime

import (
	"fmt"
	"strings"
)

// Offset is a UTC offset in milliseconds. Valid offsets lie within
// [MinOffset, MaxOffset].
type Offset int32

const (
	MillisecondsPerSecond = 1000
	MillisecondsPerMinute = 60 * MillisecondsPerSecond
	MillisecondsPerHour   = 60 * MillisecondsPerMinute

	// Zero is the offset of UTC itself.
	Zero Offset = 0
	// MaxOffset is the largest valid offset, +18:00.
	MaxOffset Offset = 18 * MillisecondsPerHour
	// MinOffset is the smallest valid offset, -18:00.
	MinOffset Offset = -MaxOffset
)

// OffsetFromHours returns an offset of h hours.
func OffsetFromHours(h int) Offset {
	return Offset(h * MillisecondsPerHour)
}

// OffsetFromHoursAndMinutes returns an offset of h hours and m minutes. Both
// values should carry the same sign.
func OffsetFromHoursAndMinutes(h, m int) Offset {
	return Offset(h*MillisecondsPerHour + m*MillisecondsPerMinute)
}

// OffsetFromSeconds returns an offset of s seconds.
func OffsetFromSeconds(s int) Offset {
	return Offset(s * MillisecondsPerSecond)
}

// OffsetFromMilliseconds returns an offset of ms milliseconds.
func OffsetFromMilliseconds(ms int) Offset {
	return Offset(ms)
}

// Milliseconds returns the offset in milliseconds.
func (o Offset) Milliseconds() int {
	return int(o)
}

// Seconds returns the offset in whole seconds, truncated towards zero.
func (o Offset) Seconds() int {
	return int(o) / MillisecondsPerSecond
}

// Ticks returns the offset in ticks.
func (o Offset) Ticks() int64 {
	return int64(o) * TicksPerMillisecond
}

// IsValid reports whether o lies within [MinOffset, MaxOffset].
func (o Offset) IsValid() bool {
	return o >= MinOffset && o <= MaxOffset
}

// String formats the offset as ±HH:MM, adding seconds and milliseconds
// only when they are non-zero.
func (o Offset) String() string {
	var b strings.Builder
	ms := int(o)
	if ms < 0 {
		b.WriteByte('-')
		ms = -ms
	} else {
		b.WriteByte('+')
	}
	h := ms / MillisecondsPerHour
	m := ms / MillisecondsPerMinute % 60
	s := ms / MillisecondsPerSecond % 60
	frac := ms % MillisecondsPerSecond
	fmt.Fprintf(&b, "%02d:%02d", h, m)
	if s != 0 || frac != 0 {
		fmt.Fprintf(&b, ":%02d", s)
	}
	if frac != 0 {
		fmt.Fprintf(&b, ".%03d", frac)
	}
	return b.String()
}
