package zone

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzdb/tztime"
)

// StandardDaylight is a rule set of two recurrences that alternate forever:
// one into standard time (zero savings) and one into daylight time. No
// transitions are stored; each query evaluates both recurrences around
// the instant.
type StandardDaylight struct {
	standardOffset tztime.Offset
	standard       Recurrence
	daylight       Recurrence
}

// NewStandardDaylight returns the rule set alternating between a and b
// around standardOffset. Exactly one of the recurrences must have zero
// savings, and both must be infinite. Both are extended to the start of
// time. The two recurrences must never occur at the same instant.
func NewStandardDaylight(standardOffset tztime.Offset, a, b Recurrence) (*StandardDaylight, error) {
	if !standardOffset.IsValid() {
		return nil, fmt.Errorf("standard offset %v out of range", standardOffset)
	}
	if !a.IsInfinite() || !b.IsInfinite() {
		return nil, errors.New("alternating recurrences must both be infinite")
	}
	std, dst := a, b
	if std.savings != tztime.Zero {
		std, dst = dst, std
	}
	if std.savings != tztime.Zero || dst.savings == tztime.Zero {
		return nil, fmt.Errorf("exactly one of %q and %q must have zero savings", a.name, b.name)
	}
	if !(standardOffset + dst.savings).IsValid() {
		return nil, fmt.Errorf("daylight offset %v out of range", standardOffset+dst.savings)
	}
	if at, ok := coincidence(standardOffset, std, dst); ok {
		return nil, fmt.Errorf("recurrences %q and %q both occur at %v", std.name, dst.name, at)
	}
	return &StandardDaylight{
		standardOffset: standardOffset,
		standard:       std.ToStartOfTime(),
		daylight:       dst.ToStartOfTime(),
	}, nil
}

// coincidence returns an instant at which std and dst both occur, if any.
// The Gregorian calendar repeats every 400 years, so checking one cycle
// covers all years. An occurrence can cross at most one year boundary.
func coincidence(standardOffset tztime.Offset, std, dst Recurrence) (tztime.Instant, bool) {
	toDaylight := dst.yearOffset.ruleOffset(standardOffset, tztime.Zero)
	toStandard := std.yearOffset.ruleOffset(standardOffset, dst.savings)
	for year := 2000; year < 2400; year++ {
		d := dst.yearOffset.OccurrenceForYear(year).SafeMinus(toDaylight)
		for y := year - 1; y <= year+1; y++ {
			if d == std.yearOffset.OccurrenceForYear(y).SafeMinus(toStandard) {
				return d, true
			}
		}
	}
	return 0, false
}

func (s *StandardDaylight) StandardOffset() tztime.Offset { return s.standardOffset }
func (s *StandardDaylight) Standard() Recurrence          { return s.standard }
func (s *StandardDaylight) Daylight() Recurrence          { return s.daylight }
func (s *StandardDaylight) isRuleSet()                    {}

func (s *StandardDaylight) Equal(o *StandardDaylight) bool {
	return *s == *o
}

// Interval returns the interval containing t. The interval ends at the
// earlier of the two recurrences' next occurrences; the other recurrence is
// the one in effect, and its previous occurrence is the interval start.
func (s *StandardDaylight) Interval(t tztime.Instant) Interval {
	next, in := s.nextTransition(t)
	previousSavings := tztime.Zero
	if in == &s.standard {
		previousSavings = s.daylight.savings
	}
	previous := in.PreviousOrSameOrFail(t, s.standardOffset, previousSavings)
	return NewInterval(in.name, previous.Instant, next.Instant, s.standardOffset+in.savings, in.savings)
}

// nextTransition returns the next transition after t and the recurrence in
// effect at t, which is the one the transition leaves.
func (s *StandardDaylight) nextTransition(t tztime.Instant) (Transition, *Recurrence) {
	// The daylight rule starts from standard time and vice versa.
	toDaylight := s.daylight.NextOrFail(t, s.standardOffset, tztime.Zero)
	toStandard := s.standard.NextOrFail(t, s.standardOffset, s.daylight.savings)
	switch {
	case toStandard.Instant < toDaylight.Instant:
		return toStandard, &s.daylight
	case toStandard.Instant > toDaylight.Instant:
		return toDaylight, &s.standard
	}
	if toStandard.Instant.IsValid() {
		panic(fmt.Sprintf("zone: recurrences %v and %v occur at the same instant %v", s.standard, s.daylight, toStandard.Instant))
	}
	// Both next transitions are at the end of time. The recurrence that
	// occurred last is the one in effect.
	fromStandard := s.daylight.PreviousOrSameOrFail(t, s.standardOffset, tztime.Zero)
	fromDaylight := s.standard.PreviousOrSameOrFail(t, s.standardOffset, s.daylight.savings)
	if fromStandard.Instant > fromDaylight.Instant {
		return toStandard, &s.daylight
	}
	return toDaylight, &s.standard
}

func (s *StandardDaylight) String() string {
	return fmt.Sprintf("StandardDaylight(%v; %v; %v)", s.standardOffset, s.standard, s.daylight)
}
