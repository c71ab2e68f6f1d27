package zone

import (
	"fmt"

	"github.com/ngrash/go-tzdb/tztime"
)

// Interval is a maximal half-open range [Start, End) of instants during
// which a time zone observes a constant wall offset, savings and name.
//
// A start of tztime.BeforeMinValue means the interval extends to the
// beginning of time, an end of tztime.AfterMaxValue means it extends to the
// end of time. Intervals are values and never change once constructed.
type Interval struct {
	name       string
	start      tztime.Instant
	end        tztime.Instant
	wallOffset tztime.Offset
	savings    tztime.Offset
}

// NewInterval returns the interval [start, end). It panics if start is not
// before end.
func NewInterval(name string, start, end tztime.Instant, wallOffset, savings tztime.Offset) Interval {
	if start >= end {
		panic(fmt.Sprintf("zone: interval %q start %v is not before end %v", name, start, end))
	}
	return Interval{name: name, start: start, end: end, wallOffset: wallOffset, savings: savings}
}

// Name returns the abbreviation observed during the interval, e.g. "PDT".
func (i Interval) Name() string { return i.name }

// Start returns the first instant of the interval.
func (i Interval) Start() tztime.Instant { return i.start }

// End returns the first instant after the interval.
func (i Interval) End() tztime.Instant { return i.end }

// WallOffset returns the UTC offset observed during the interval,
// including daylight savings.
func (i Interval) WallOffset() tztime.Offset { return i.wallOffset }

// Savings returns the daylight savings part of the wall offset.
func (i Interval) Savings() tztime.Offset { return i.savings }

// StandardOffset returns the wall offset without daylight savings.
func (i Interval) StandardOffset() tztime.Offset { return i.wallOffset - i.savings }

// HasStart reports whether the interval has a finite start.
func (i Interval) HasStart() bool { return i.start != tztime.BeforeMinValue }

// HasEnd reports whether the interval has a finite end.
func (i Interval) HasEnd() bool { return i.end != tztime.AfterMaxValue }

// Contains reports whether t lies within [Start, End). An unbounded end
// contains every instant, including tztime.AfterMaxValue.
func (i Interval) Contains(t tztime.Instant) bool {
	return i.start <= t && (t < i.end || !i.HasEnd())
}

// WithStart returns a copy of i starting at start.
func (i Interval) WithStart(start tztime.Instant) Interval {
	return NewInterval(i.name, start, i.end, i.wallOffset, i.savings)
}

// WithEnd returns a copy of i ending at end.
func (i Interval) WithEnd(end tztime.Instant) Interval {
	return NewInterval(i.name, i.start, end, i.wallOffset, i.savings)
}

// Equal reports whether i and o describe the same interval.
func (i Interval) Equal(o Interval) bool {
	return i == o
}

func (i Interval) String() string {
	return fmt.Sprintf("%s: [%v, %v) %v (%v)", i.name, i.start, i.end, i.wallOffset, i.savings)
}
