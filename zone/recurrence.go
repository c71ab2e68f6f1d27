package zone

import (
	"fmt"
	"math"

	"github.com/ngrash/go-tzdb/tzio"
	"github.com/ngrash/go-tzdb/tztime"
)

const (
	// NoStartYear as the first year of a Recurrence means the rule applies
	// since the beginning of time.
	NoStartYear = math.MinInt32
	// NoEndYear as the last year of a Recurrence means the rule applies
	// forever.
	NoEndYear = math.MaxInt32
)

// Transition is a change of offset at an instant.
type Transition struct {
	Instant tztime.Instant
	// NewOffset is the wall offset observed from Instant on.
	NewOffset tztime.Offset
}

func (t Transition) String() string {
	return fmt.Sprintf("%v -> %v", t.Instant, t.NewOffset)
}

// Recurrence is a named annual rule, e.g. "PDT: +1h from the second Sunday
// in March at 02:00 wall time", valid in the years [FromYear, ToYear].
type Recurrence struct {
	name       string
	savings    tztime.Offset
	yearOffset YearOffset
	fromYear   int
	toYear     int

	// Occurrences in fromYear and toYear, or the local sentinels when the
	// corresponding bound is open.
	minLocal tztime.LocalInstant
	maxLocal tztime.LocalInstant
}

// NewRecurrence returns a recurrence of the given savings, valid from
// fromYear to toYear inclusive. Use NoStartYear and NoEndYear for open
// bounds.
func NewRecurrence(name string, savings tztime.Offset, yo YearOffset, fromYear, toYear int) (Recurrence, error) {
	if err := yo.Validate(); err != nil {
		return Recurrence{}, fmt.Errorf("recurrence %q: %w", name, err)
	}
	if !savings.IsValid() {
		return Recurrence{}, fmt.Errorf("recurrence %q: savings %v out of range", name, savings)
	}
	if fromYear != NoStartYear && (fromYear < tztime.MinYear || fromYear > tztime.MaxYear) {
		return Recurrence{}, fmt.Errorf("recurrence %q: first year %d out of range", name, fromYear)
	}
	if toYear != NoEndYear && (toYear < tztime.MinYear || toYear > tztime.MaxYear) {
		return Recurrence{}, fmt.Errorf("recurrence %q: last year %d out of range", name, toYear)
	}
	if fromYear > toYear {
		return Recurrence{}, fmt.Errorf("recurrence %q: first year %d after last year %d", name, fromYear, toYear)
	}
	r := Recurrence{
		name:       name,
		savings:    savings,
		yearOffset: yo,
		fromYear:   fromYear,
		toYear:     toYear,
		minLocal:   tztime.BeforeMinLocal,
		maxLocal:   tztime.AfterMaxLocal,
	}
	if fromYear != NoStartYear {
		r.minLocal = yo.OccurrenceForYear(fromYear)
	}
	if toYear != NoEndYear {
		r.maxLocal = yo.OccurrenceForYear(toYear)
	}
	return r, nil
}

func (r Recurrence) Name() string            { return r.name }
func (r Recurrence) Savings() tztime.Offset  { return r.savings }
func (r Recurrence) YearOffset() YearOffset  { return r.yearOffset }
func (r Recurrence) FromYear() int           { return r.fromYear }
func (r Recurrence) ToYear() int             { return r.toYear }
func (r Recurrence) IsInfinite() bool        { return r.toYear == NoEndYear }
func (r Recurrence) Equal(o Recurrence) bool { return r == o }

// WithName returns a copy of r with a different name.
func (r Recurrence) WithName(name string) Recurrence {
	r.name = name
	return r
}

// ToStartOfTime returns a copy of r whose validity extends back to the
// beginning of time.
func (r Recurrence) ToStartOfTime() Recurrence {
	r.fromYear = NoStartYear
	r.minLocal = tztime.BeforeMinLocal
	return r
}

// Next returns the first occurrence strictly after the instant after.
// The standard offset and the savings in effect before the transition are
// needed to place rules expressed in standard or wall time. The boolean is
// false when the recurrence has no more occurrences. An occurrence beyond
// the last representable year is reported at tztime.AfterMaxValue.
func (r Recurrence) Next(after tztime.Instant, standard, previousSavings tztime.Offset) (Transition, bool) {
	ruleOffset := r.yearOffset.ruleOffset(standard, previousSavings)
	newOffset := standard + r.savings
	local := after.SafePlus(ruleOffset)

	var year int
	switch {
	case local < r.minLocal:
		year = r.fromYear
	case local == tztime.AfterMaxLocal && r.IsInfinite():
		// after is close enough to the end of time for the conversion to
		// saturate. Occurrences of the last years may still follow it.
		year = tztime.MaxYear
	case local >= r.maxLocal:
		return Transition{}, false
	case local == tztime.BeforeMinLocal:
		year = tztime.MinYear - 1
	default:
		// Start one year early: the occurrence of a nominal year can spill
		// into the following calendar year. This includes MinYear-1.
		year = max(local.Year()-1, r.fromYear, tztime.MinYear-1)
	}
	for ; year <= r.toYear; year++ {
		t := r.yearOffset.OccurrenceForYear(year).SafeMinus(ruleOffset)
		if t > after {
			return Transition{t, newOffset}, true
		}
		if year > tztime.MaxYear {
			return Transition{tztime.AfterMaxValue, newOffset}, true
		}
	}
	return Transition{}, false
}

// NextOrFail is Next for recurrences known to have a next occurrence. It
// panics otherwise, which means the rule data is broken.
func (r Recurrence) NextOrFail(after tztime.Instant, standard, previousSavings tztime.Offset) Transition {
	t, ok := r.Next(after, standard, previousSavings)
	if !ok {
		panic(fmt.Sprintf("zone: recurrence %v has no occurrence after %v", r, after))
	}
	return t
}

// PreviousOrSame returns the last occurrence at or before the instant
// before. The boolean is false when the recurrence has no earlier
// occurrence. An occurrence before the first representable year is
// reported at tztime.BeforeMinValue.
func (r Recurrence) PreviousOrSame(before tztime.Instant, standard, previousSavings tztime.Offset) (Transition, bool) {
	ruleOffset := r.yearOffset.ruleOffset(standard, previousSavings)
	newOffset := standard + r.savings
	local := before.SafePlus(ruleOffset)

	var year int
	switch {
	case local > r.maxLocal:
		year = r.toYear
	case local < r.minLocal:
		return Transition{}, false
	case local == tztime.AfterMaxLocal:
		year = tztime.MaxYear + 1
	case local == tztime.BeforeMinLocal:
		year = tztime.MinYear
	default:
		// The occurrence of the next nominal year can fall into this
		// calendar year. This includes MaxYear+1.
		year = min(local.Year()+1, r.toYear, tztime.MaxYear+1)
	}
	for ; year >= r.fromYear; year-- {
		t := r.yearOffset.OccurrenceForYear(year).SafeMinus(ruleOffset)
		// An occurrence past the end of time never happened.
		if t <= before && t != tztime.AfterMaxValue {
			return Transition{t, newOffset}, true
		}
		if year < tztime.MinYear {
			return Transition{tztime.BeforeMinValue, newOffset}, true
		}
	}
	return Transition{}, false
}

// PreviousOrSameOrFail is PreviousOrSame for recurrences known to have an
// occurrence at or before the instant. It panics otherwise.
func (r Recurrence) PreviousOrSameOrFail(before tztime.Instant, standard, previousSavings tztime.Offset) Transition {
	t, ok := r.PreviousOrSame(before, standard, previousSavings)
	if !ok {
		panic(fmt.Sprintf("zone: recurrence %v has no occurrence at or before %v", r, before))
	}
	return t
}

func (r Recurrence) String() string {
	from, to := "min", "max"
	if r.fromYear != NoStartYear {
		from = fmt.Sprint(r.fromYear)
	}
	if r.toYear != NoEndYear {
		to = fmt.Sprint(r.toYear)
	}
	return fmt.Sprintf("%s %v [%s, %s] %v", r.name, r.savings, from, to, r.yearOffset)
}

// Write writes the name, the savings, the year offset and both bounds.
func (r Recurrence) Write(w *tzio.Writer) error {
	if err := w.WriteString(r.name); err != nil {
		return err
	}
	if err := w.WriteOffset(r.savings); err != nil {
		return err
	}
	if err := r.yearOffset.Write(w); err != nil {
		return err
	}
	if err := w.WriteSignedCount(int32(r.fromYear)); err != nil {
		return err
	}
	return w.WriteSignedCount(int32(r.toYear))
}

// ReadRecurrence reads a recurrence written by Recurrence.Write.
func ReadRecurrence(r *tzio.Reader) (Recurrence, error) {
	start := r.Offset()
	name, err := r.ReadString()
	if err != nil {
		return Recurrence{}, err
	}
	savings, err := r.ReadOffset()
	if err != nil {
		return Recurrence{}, err
	}
	yo, err := ReadYearOffset(r)
	if err != nil {
		return Recurrence{}, err
	}
	from, err := r.ReadSignedCount()
	if err != nil {
		return Recurrence{}, err
	}
	to, err := r.ReadSignedCount()
	if err != nil {
		return Recurrence{}, err
	}
	rec, err := NewRecurrence(name, savings, yo, int(from), int(to))
	if err != nil {
		return Recurrence{}, r.Errorf(start, "%v", err)
	}
	return rec, nil
}
