package tztime

import (
	"fmt"
	"math"
	"time"
)

// LocalInstant is a point on a local time line: the ticks since
// 1970-01-01T00:00:00 in some unspecified offset. It is only meaningful
// together with the offset that produced it.
type LocalInstant int64

const (
	// BeforeMinLocal is earlier than every valid local instant.
	BeforeMinLocal LocalInstant = math.MinInt64
	// AfterMaxLocal is later than every valid local instant.
	AfterMaxLocal LocalInstant = math.MaxInt64
)

// LocalFromDateTime returns the local instant of the given date and time of
// day. The time of day may be 24h or more, in which case the result rolls
// into the following days.
func LocalFromDateTime(year, month, day int, timeOfDay time.Duration) LocalInstant {
	days := DaysFromCivil(year, month, day)
	return LocalInstant(days*TicksPerDay + int64(timeOfDay/100))
}

// IsValid reports whether l lies within the same range as valid instants.
func (l LocalInstant) IsValid() bool {
	return l >= LocalInstant(MinValue) && l <= LocalInstant(MaxValue)
}

// DaysSinceEpoch returns the number of whole local days since 1970-01-01,
// rounding towards negative infinity.
func (l LocalInstant) DaysSinceEpoch() int64 {
	return floorDiv(int64(l), TicksPerDay)
}

// Year returns the year of the local date containing l.
func (l LocalInstant) Year() int {
	return YearFromDays(l.DaysSinceEpoch())
}

// SafeMinus converts l to an instant by subtracting the offset o. Values
// that would leave the valid range become BeforeMinValue or AfterMaxValue.
func (l LocalInstant) SafeMinus(o Offset) Instant {
	switch {
	case l == BeforeMinLocal:
		return BeforeMinValue
	case l == AfterMaxLocal:
		return AfterMaxValue
	}
	r := int64(l) - o.Ticks()
	if r < int64(MinValue) {
		return BeforeMinValue
	}
	if r > int64(MaxValue) {
		return AfterMaxValue
	}
	return Instant(r)
}

func (l LocalInstant) String() string {
	switch l {
	case BeforeMinLocal:
		return "StartOfLocalTime"
	case AfterMaxLocal:
		return "EndOfLocalTime"
	}
	days := l.DaysSinceEpoch()
	y, m, d := CivilFromDays(days)
	tod := time.Duration(int64(l)-days*TicksPerDay) * 100
	h := tod / time.Hour
	mi := (tod % time.Hour) / time.Minute
	s := (tod % time.Minute) / time.Second
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", y, m, d, h, mi, s)
}
