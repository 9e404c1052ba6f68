package container

// options.go defines the functional options accepted by NewDictionary,
// NewSet and NewBag, built the same way pkg/config.go's Option[K,V] is:
// every option mutates a private config struct, and applyOptions validates
// the result once every option has run -- except here every violation is
// collected via go.uber.org/multierr instead of returning only the first
// one found, since construction is rare enough to afford a complete report.
//
// © 2025 hashkernel authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/hashengine"
)

// Option configures a container constructor.
type Option func(*config)

type config struct {
	capacityHint int
	family       hashengine.ProbeFamily
	aggressive   bool
	callbacks    *callback.Table
	logger       *zap.Logger
	registry     *prometheus.Registry
}

func defaultConfig() *config {
	return &config{
		family: hashengine.LinearHashing,
	}
}

// WithCapacityHint seeds the table with at least this many buckets
// up-front, avoiding early rehashes (spec.md §6 "capacity hint").
func WithCapacityHint(n int) Option {
	return func(c *config) { c.capacityHint = n }
}

// WithProbeFamily selects linear, double or exponential probing (spec.md
// §4.2's ProbeFamily). The zero value defaults to LinearHashing.
func WithProbeFamily(f hashengine.ProbeFamily) Option {
	return func(c *config) { c.family = f }
}

// WithAggressiveGrowth lowers the load-factor trigger from 75% to 50%,
// trading memory for fewer future rehashes (spec.md §4.2 "AggressiveGrowth").
func WithAggressiveGrowth() Option {
	return func(c *config) { c.aggressive = true }
}

// WithCallbacks supplies a custom per-element callback table (spec.md
// §4.3); omitting this option leaves the all-identity default (nil table).
func WithCallbacks(cb *callback.Table) Option {
	return func(c *config) { c.callbacks = cb }
}

// WithLogger plugs an external zap.Logger. The container never logs on the
// hot path, only on immutable-violation and halt paths (spec.md §7).
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// applyOptions runs every option against a fresh config and validates the
// result, aggregating every violation with multierr rather than stopping at
// the first.
func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	if cfg.capacityHint < 0 {
		err = multierr.Append(err, ErrInvalidCapacity)
	}
	if cfg.family != 0 &&
		cfg.family != hashengine.LinearHashing &&
		cfg.family != hashengine.DoubleHashing &&
		cfg.family != hashengine.ExponentialHashing {
		err = multierr.Append(err, ErrIncompatibleFlags)
	}
	return cfg, err
}
