package zone

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ngrash/go-tzdb/tztime"
)

// CacheConfig sizes a Cache.
type CacheConfig struct {
	// Size is the number of slots, a power of two.
	Size int `json:"size"`
	// PeriodShift selects the period length: 2^PeriodShift days.
	PeriodShift uint `json:"period_shift"`
}

// DefaultCacheConfig returns 32 slots of 32-day periods, which keeps about
// three years of intervals around recent queries.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 32, PeriodShift: 5}
}

const (
	maxCacheSize        = 4096
	maxCachePeriodShift = 16
)

// Validate reports every field that is out of range.
func (c CacheConfig) Validate() error {
	var errs []error
	if c.Size < 1 || c.Size > maxCacheSize || c.Size&(c.Size-1) != 0 {
		errs = append(errs, fmt.Errorf("cache size %d is not a power of two in [1, %d]", c.Size, maxCacheSize))
	}
	if c.PeriodShift > maxCachePeriodShift {
		errs = append(errs, fmt.Errorf("cache period shift %d out of range [0, %d]", c.PeriodShift, maxCachePeriodShift))
	}
	return errors.Join(errs...)
}

// Cache wraps a rule set with a fixed-size cache of the intervals around
// recently queried instants.
//
// Time is divided into periods of 2^PeriodShift days. Each period maps to
// one slot, and a slot holds the intervals covering one period. A query for
// a period that is not in its slot computes the period's intervals from the
// source and replaces the slot. Slots are replaced atomically with fully
// built, immutable nodes, so concurrent queries may recompute a period but
// never see a partial one. Results are always those of the source.
type Cache struct {
	source RuleSet
	shift  uint
	mask   int64
	slots  []atomic.Pointer[cacheNode]
}

type cacheNode struct {
	period int64
	// intervals covers the whole period, in order.
	intervals []Interval
}

// NewCache returns a cache over source. Wrapping a cache caches its source
// instead.
func NewCache(source RuleSet, cfg CacheConfig) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c, ok := source.(*Cache); ok {
		source = c.source
	}
	return &Cache{
		source: source,
		shift:  cfg.PeriodShift,
		mask:   int64(cfg.Size - 1),
		slots:  make([]atomic.Pointer[cacheNode], cfg.Size),
	}, nil
}

// Source returns the wrapped rule set.
func (c *Cache) Source() RuleSet { return c.source }

func (c *Cache) isRuleSet() {}

// Interval returns the interval containing t.
func (c *Cache) Interval(t tztime.Instant) Interval {
	period := t.DaysSinceEpoch() >> c.shift
	slot := &c.slots[period&c.mask]
	n := slot.Load()
	if n == nil || n.period != period {
		n = c.newNode(period)
		slot.Store(n)
	}
	for _, iv := range n.intervals {
		if iv.Contains(t) {
			return iv
		}
	}
	// Only instants outside the period's ticks, i.e. the sentinels, get
	// here.
	return c.source.Interval(t)
}

func (c *Cache) newNode(period int64) *cacheNode {
	start := tztime.Instant((period << c.shift) * tztime.TicksPerDay)
	end := tztime.Instant(((period + 1) << c.shift) * tztime.TicksPerDay)
	iv := c.source.Interval(start)
	n := &cacheNode{period: period, intervals: []Interval{iv}}
	for iv.HasEnd() && iv.end < end {
		iv = c.source.Interval(iv.end)
		n.intervals = append(n.intervals, iv)
	}
	return n
}

// Clear drops every cached period.
func (c *Cache) Clear() {
	for k := range c.slots {
		c.slots[k].Store(nil)
	}
}

func (c *Cache) String() string {
	return fmt.Sprintf("Cache(%d slots of 2^%d days, %v)", len(c.slots), c.shift, c.source)
}
