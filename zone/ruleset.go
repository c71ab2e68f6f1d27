// Package zone implements the rules of a single time zone: the intervals of
// constant offset it is made of, annual recurrences that produce them, and
// the rule sets that map every instant to its interval.
//
// A RuleSet is one of
//
//	Fixed             a single offset for all time
//	*StandardDaylight two recurrences alternating forever
//	*Precomputed      explicit intervals, optionally followed by a tail
//	*Cache            a caching wrapper around any of the above
//
// Interval is total: every instant, including the sentinels, maps to
// exactly one interval.
package zone

import (
	"fmt"

	"github.com/ngrash/go-tzdb/tztime"
)

// RuleSet maps instants to the zone intervals containing them. The set of
// implementations is closed.
type RuleSet interface {
	// Interval returns the interval containing t.
	Interval(t tztime.Instant) Interval
	isRuleSet()
}

// Fixed is a rule set with a single offset and no daylight savings.
type Fixed struct {
	interval Interval
}

// NewFixed returns a rule set observing offset under the given name for
// all time.
func NewFixed(name string, offset tztime.Offset) Fixed {
	return Fixed{interval: NewInterval(name, tztime.BeforeMinValue, tztime.AfterMaxValue, offset, tztime.Zero)}
}

func (f Fixed) Interval(tztime.Instant) Interval { return f.interval }
func (f Fixed) Name() string                     { return f.interval.name }
func (f Fixed) Offset() tztime.Offset            { return f.interval.wallOffset }
func (f Fixed) Equal(o Fixed) bool               { return f == o }
func (f Fixed) isRuleSet()                       {}

// Equal reports whether a and b are the same kind of rule set with the same
// rules. A cache compares equal to its source.
func Equal(a, b RuleSet) bool {
	if c, ok := a.(*Cache); ok {
		a = c.source
	}
	if c, ok := b.(*Cache); ok {
		b = c.source
	}
	switch a := a.(type) {
	case Fixed:
		b, ok := b.(Fixed)
		return ok && a.Equal(b)
	case *StandardDaylight:
		b, ok := b.(*StandardDaylight)
		return ok && a.Equal(b)
	case *Precomputed:
		b, ok := b.(*Precomputed)
		return ok && a.Equal(b)
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("zone: unknown rule set %T", a))
	}
}
