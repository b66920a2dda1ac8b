package probemap

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultCapacity   = 10
	DefaultLoadFactor = 0.5
)

var (
	ErrInvalidCapacity   = errors.New("probemap: capacity must be positive")
	ErrInvalidLoadFactor = errors.New("probemap: load factor must be in (0, 1]")
)

type config struct {
	capacity   int
	loadFactor float64
	logger     *zap.Logger
}

// Option configures a Map at construction.
type Option func(*config)

// WithCapacity sets the initial number of slots.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}

// WithLoadFactor sets the fraction of slots that may be occupied
// before the map grows.
func WithLoadFactor(loadFactor float64) Option {
	return func(c *config) {
		c.loadFactor = loadFactor
	}
}

// WithLogger sets the logger used to report growth.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) (config, error) {
	c := config{
		capacity:   DefaultCapacity,
		loadFactor: DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.capacity <= 0 {
		return c, errors.Wrapf(ErrInvalidCapacity, "capacity %d", c.capacity)
	}
	// written this way so NaN is rejected
	if !(c.loadFactor > 0 && c.loadFactor <= 1) {
		return c, errors.Wrapf(ErrInvalidLoadFactor, "load factor %v", c.loadFactor)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}
