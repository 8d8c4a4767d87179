package whisper

import (
	"go.uber.org/zap"

	"github.com/whisperdb/whisper/internal/options"
)

// createConfig collects the options recognized by Create: xFilesFactor,
// aggregationMethod, sparse, and overwrite, as a composable option set.
type createConfig struct {
	xFilesFactor      float32
	aggregationMethod AggregationMethod
	sparse            bool
	overwrite         bool
	logger            *zap.Logger
}

func defaultCreateConfig() *createConfig {
	return &createConfig{
		xFilesFactor:      0.5,
		aggregationMethod: Average,
		logger:            zap.NewNop(),
	}
}

// CreateOption configures Create and CreateContainer.
type CreateOption = options.Option[*createConfig]

// WithXFilesFactor sets the minimum known-fraction required to write a
// coarser aggregate. Must be in [0.0, 1.0]; Create rejects values outside
// that range with InvalidConfiguration.
func WithXFilesFactor(x float32) CreateOption {
	return options.NoError[*createConfig](func(c *createConfig) {
		c.xFilesFactor = x
	})
}

// WithAggregationMethod sets the propagation aggregation function.
func WithAggregationMethod(m AggregationMethod) CreateOption {
	return options.NoError[*createConfig](func(c *createConfig) {
		c.aggregationMethod = m
	})
}

// WithSparse makes Create reserve archive regions with a single trailing
// zero byte instead of writing them densely.
func WithSparse(sparse bool) CreateOption {
	return options.NoError[*createConfig](func(c *createConfig) {
		c.sparse = sparse
	})
}

// WithOverwrite allows Create to replace an existing file instead of
// failing with InvalidConfiguration.
func WithOverwrite(overwrite bool) CreateOption {
	return options.NoError[*createConfig](func(c *createConfig) {
		c.overwrite = overwrite
	})
}

// WithCreateLogger injects a structured logger used during create (e.g.
// reporting a sparse vs. dense allocation choice at Debug level).
func WithCreateLogger(log *zap.Logger) CreateOption {
	return options.NoError[*createConfig](func(c *createConfig) {
		if log != nil {
			c.logger = log
		}
	})
}

// openConfig collects the options recognized by Open.
type openConfig struct {
	autoFlush bool
	logger    *zap.Logger
}

func defaultOpenConfig() *openConfig {
	return &openConfig{logger: zap.NewNop()}
}

// OpenOption configures Open and OpenContainer.
type OpenOption = options.Option[*openConfig]

// WithAutoFlush makes every Update/UpdateMany call flush the container
// before returning. Off by default; the caller is then responsible for
// flushing before Close.
func WithAutoFlush(autoFlush bool) OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) {
		c.autoFlush = autoFlush
	})
}

// WithLogger injects a structured logger used for the lifetime of the
// handle (propagation gating decisions at Debug level).
func WithLogger(log *zap.Logger) OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) {
		if log != nil {
			c.logger = log
		}
	})
}
