package tzdb

import "github.com/ngrash/go-tzdb/zone"

type options struct {
	cache *zone.CacheConfig
	eager bool
}

// Option configures Decode and Open.
type Option func(*options)

func defaultOptions() options {
	cfg := zone.DefaultCacheConfig()
	return options{cache: &cfg}
}

// WithCache wraps every materialized zone in a zone.Cache built from cfg.
// A cache with zone.DefaultCacheConfig is used unless another option says
// otherwise.
func WithCache(cfg zone.CacheConfig) Option {
	return func(o *options) { o.cache = &cfg }
}

// WithoutCache serves queries from the rule sets directly.
func WithoutCache() Option {
	return func(o *options) { o.cache = nil }
}

// WithEagerZones materializes every zone during Decode, so that malformed
// zone rules fail the load rather than the first query for that zone.
func WithEagerZones() Option {
	return func(o *options) { o.eager = true }
}
