package workers

import (
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/metrics"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/google/uuid"
)

const (
	DefaultParallelism = 4
	DefaultTimeout     = scrapers.DefaultTimeout
)

// Options holds configurable parameters for the Pool.
type Options struct {
	Parallelism int
	Timeout     time.Duration
	RunID       uuid.UUID
	Metrics     *metrics.Metrics
	Sink        Sink
}

// Option is a function type that modifies the Options struct.
type Option func(*Options) error

// WithParallelism bounds the number of concurrent fetches.
func WithParallelism(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return ec.ErrValidationFailed.Clone().
				WithMessage("parallelism must be at least 1")
		}
		o.Parallelism = n
		return nil
	}
}

// WithTimeout sets the deadline of a single station fetch.
func WithTimeout(t time.Duration) Option {
	return func(o *Options) error {
		if t <= 0 {
			return ec.ErrValidationFailed.Clone().
				WithMessage("timeout must be positive")
		}
		o.Timeout = t
		return nil
	}
}

func WithRunID(id uuid.UUID) Option {
	return func(o *Options) error {
		o.RunID = id
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) error {
		o.Metrics = m
		return nil
	}
}

// WithSink forwards every station result to s.
func WithSink(s Sink) Option {
	return func(o *Options) error {
		o.Sink = s
		return nil
	}
}
