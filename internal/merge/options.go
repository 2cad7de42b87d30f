package merge

import "log/slog"

type config struct {
	maxAttempts int
	strict      bool
	ascii       bool
	logger      *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Merger or a Combiner.
type Option func(*config)

// WithMaxAttempts sets the attempt budget per combined node.
//
// Default: DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// WithStrict disables weak type matches. Only functors whose domain equals
// the argument type are applied.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithASCII folds fused named-entity lemmas to ASCII, matching an
// assigner configured the same way.
func WithASCII(enabled bool) Option {
	return func(c *config) {
		c.ascii = enabled
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
