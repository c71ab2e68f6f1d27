package zone

import "github.com/ngrash/go-tzdb/tztime"

// Intervals returns the contiguous intervals of rs overlapping [from, to),
// in order. It returns nil if to is not after from.
func Intervals(rs RuleSet, from, to tztime.Instant) []Interval {
	if to <= from {
		return nil
	}
	iv := rs.Interval(from)
	out := []Interval{iv}
	for iv.HasEnd() && iv.end < to {
		iv = rs.Interval(iv.end)
		out = append(out, iv)
	}
	return out
}
