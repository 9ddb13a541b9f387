package usecase

import "time"

type options struct {
	metrics  MetricsRecorder
	retrier  Retrier
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// Option configures optional collaborators of a use case.
type Option func(*options)

// WithMetrics sets the business metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithRetrier sets the retrier used around write transactions.
func WithRetrier(r Retrier) Option {
	return func(o *options) {
		if r != nil {
			o.retrier = r
		}
	}
}

// WithCache sets the cache for immutable snapshots. A non-positive ttl
// keeps ClosedSessionCacheTTL.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		metrics:  noopMetrics{},
		retrier:  directRetrier{},
		cacheTTL: ClosedSessionCacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
