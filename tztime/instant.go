// Package tztime provides the value types shared by the time zone engine:
// points on the global time line (Instant), points on a local time line
// (LocalInstant) and UTC offsets (Offset).
//
// Time is modelled as a perfectly divisible continuum of 100 nanosecond ticks
// counted from the Unix epoch. Leap seconds are not modelled.
package tztime

import (
	"math"
	"time"
)

const (
	TicksPerMillisecond int64 = 10_000
	TicksPerSecond            = 1000 * TicksPerMillisecond
	TicksPerMinute            = 60 * TicksPerSecond
	TicksPerHour              = 60 * TicksPerMinute
	TicksPerDay               = 24 * TicksPerHour
)

// Instant is a point on the global time line, in ticks since
// 1970-01-01T00:00:00Z.
//
// Valid instants lie within [MinValue, MaxValue]. The two sentinels
// BeforeMinValue and AfterMaxValue stand for "before the beginning of time"
// and "after the end of time" and are used as the open ends of zone intervals.
type Instant int64

const (
	// BeforeMinValue is earlier than every valid instant.
	BeforeMinValue Instant = math.MinInt64
	// AfterMaxValue is later than every valid instant.
	AfterMaxValue Instant = math.MaxInt64
)

var (
	minDays = DaysFromCivil(MinYear, 1, 1)
	maxDays = DaysFromCivil(MaxYear, 12, 31)

	// MinValue is the earliest valid instant, -9998-01-01T00:00:00Z.
	MinValue = Instant(minDays * TicksPerDay)
	// MaxValue is the latest valid instant, the last tick of 9999-12-31.
	MaxValue = Instant((maxDays+1)*TicksPerDay - 1)
)

// FromTicks returns the instant that is ticks after the Unix epoch.
func FromTicks(ticks int64) Instant {
	return Instant(ticks)
}

// FromUnixSeconds returns the instant that is sec seconds after the Unix epoch.
func FromUnixSeconds(sec int64) Instant {
	return Instant(sec * TicksPerSecond)
}

// FromUTC returns the instant of the given UTC date and time.
func FromUTC(year, month, day, hour, minute, second int) Instant {
	days := DaysFromCivil(year, month, day)
	return Instant(days*TicksPerDay + int64(hour)*TicksPerHour + int64(minute)*TicksPerMinute + int64(second)*TicksPerSecond)
}

// FromTime converts t to an Instant, truncating to tick precision.
func FromTime(t time.Time) Instant {
	return Instant(t.Unix()*TicksPerSecond + int64(t.Nanosecond())/100)
}

// Ticks returns the number of ticks since the Unix epoch.
func (i Instant) Ticks() int64 {
	return int64(i)
}

// IsValid reports whether i lies within [MinValue, MaxValue].
func (i Instant) IsValid() bool {
	return i >= MinValue && i <= MaxValue
}

// DaysSinceEpoch returns the number of whole days since the Unix epoch,
// rounding towards negative infinity.
func (i Instant) DaysSinceEpoch() int64 {
	switch i {
	case BeforeMinValue:
		return minDays - 1
	case AfterMaxValue:
		return maxDays + 1
	}
	return floorDiv(int64(i), TicksPerDay)
}

// PlusTicks returns i moved by n ticks. Results outside the valid range
// saturate to BeforeMinValue or AfterMaxValue, and the sentinels are sticky.
func (i Instant) PlusTicks(n int64) Instant {
	if !i.IsValid() {
		return i
	}
	r := int64(i) + n
	if r < int64(MinValue) {
		return BeforeMinValue
	}
	if r > int64(MaxValue) {
		return AfterMaxValue
	}
	return Instant(r)
}

// SafePlus converts i to a local instant by adding the offset o. Values
// that would leave the valid range become BeforeMinLocal or AfterMaxLocal.
func (i Instant) SafePlus(o Offset) LocalInstant {
	switch {
	case i == BeforeMinValue:
		return BeforeMinLocal
	case i == AfterMaxValue:
		return AfterMaxLocal
	}
	r := int64(i) + o.Ticks()
	if r < int64(MinValue) {
		return BeforeMinLocal
	}
	if r > int64(MaxValue) {
		return AfterMaxLocal
	}
	return LocalInstant(r)
}

// Time converts i to a time.Time in UTC. The sentinels are clamped to
// MinValue and MaxValue.
func (i Instant) Time() time.Time {
	switch i {
	case BeforeMinValue:
		i = MinValue
	case AfterMaxValue:
		i = MaxValue
	}
	sec := floorDiv(int64(i), TicksPerSecond)
	nsec := (int64(i) - sec*TicksPerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}

func (i Instant) String() string {
	switch i {
	case BeforeMinValue:
		return "StartOfTime"
	case AfterMaxValue:
		return "EndOfTime"
	}
	return i.Time().Format("2006-01-02T15:04:05.9999999Z")
}
