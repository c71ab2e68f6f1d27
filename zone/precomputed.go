package zone

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ngrash/go-tzdb/tztime"
)

// Precomputed is a rule set of explicit intervals, optionally followed by
// a tail rule set governing everything after the last interval.
type Precomputed struct {
	intervals []Interval
	tail      RuleSet
	// tailStart is the end of the last interval, or AfterMaxValue without
	// a tail.
	tailStart tztime.Instant
	// firstTail is the tail's interval at tailStart, clipped to start
	// there.
	firstTail Interval
}

// NewPrecomputed returns a rule set of the given intervals followed by tail.
// The intervals must be contiguous, the first must extend to the beginning
// of time, and the last must end at the end of time unless there is a tail.
// The tail may be nil.
func NewPrecomputed(intervals []Interval, tail RuleSet) (*Precomputed, error) {
	if len(intervals) == 0 {
		return nil, errors.New("precomputed rule set without intervals")
	}
	if intervals[0].HasStart() {
		return nil, fmt.Errorf("first interval %v does not extend to the beginning of time", intervals[0])
	}
	for k := 1; k < len(intervals); k++ {
		if intervals[k-1].end != intervals[k].start {
			return nil, fmt.Errorf("interval %v does not start where %v ends", intervals[k], intervals[k-1])
		}
	}
	last := intervals[len(intervals)-1]
	p := &Precomputed{
		intervals: append([]Interval(nil), intervals...),
		tail:      tail,
		tailStart: tztime.AfterMaxValue,
	}
	switch {
	case tail == nil && last.HasEnd():
		return nil, fmt.Errorf("last interval %v ends before the end of time and there is no tail", last)
	case tail != nil && !last.HasEnd():
		return nil, fmt.Errorf("last interval %v extends to the end of time but there is a tail", last)
	case tail != nil:
		p.tailStart = last.end
		p.firstTail = tail.Interval(p.tailStart).WithStart(p.tailStart)
	}
	return p, nil
}

// Intervals returns a copy of the precomputed intervals.
func (p *Precomputed) Intervals() []Interval {
	return append([]Interval(nil), p.intervals...)
}

// Tail returns the tail rule set, or nil.
func (p *Precomputed) Tail() RuleSet { return p.tail }

// TailStart returns the instant the tail takes over, or AfterMaxValue.
func (p *Precomputed) TailStart() tztime.Instant { return p.tailStart }

func (p *Precomputed) isRuleSet() {}

// Interval returns the interval containing t by binary search over the
// precomputed intervals, or from the tail at and after TailStart. The
// tail's interval spanning TailStart is clipped to start there.
func (p *Precomputed) Interval(t tztime.Instant) Interval {
	if p.tail != nil && t >= p.tailStart {
		iv := p.tail.Interval(t)
		if iv.start < p.tailStart {
			return p.firstTail
		}
		return iv
	}
	k := sort.Search(len(p.intervals), func(k int) bool {
		return p.intervals[k].end > t
	})
	if k == len(p.intervals) {
		// Only AfterMaxValue itself is not below the last end.
		k--
	}
	return p.intervals[k]
}

func (p *Precomputed) Equal(o *Precomputed) bool {
	if len(p.intervals) != len(o.intervals) || p.tailStart != o.tailStart {
		return false
	}
	for k := range p.intervals {
		if p.intervals[k] != o.intervals[k] {
			return false
		}
	}
	return Equal(p.tail, o.tail)
}

func (p *Precomputed) String() string {
	return fmt.Sprintf("Precomputed(%d intervals until %v, tail %v)", len(p.intervals), p.tailStart, p.tail)
}
