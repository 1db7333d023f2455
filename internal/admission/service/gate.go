// Package service implements the admission gate: the single pre-flight
// check both proxy endpoints run before dispatching an upstream call.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"proxygate/internal/admission/metrics"
	"proxygate/internal/admission/models"
	"proxygate/internal/admission/ports"
	"proxygate/pkg/requestcontext"
)

// Type aliases for interfaces from the ports package so callers don't need
// to import ports directly.
type (
	WindowStore = ports.WindowStore
	LedgerStore = ports.LedgerStore
)

// Limits carries the per-endpoint admission configuration. The rate limit is
// independently configurable per endpoint; the quota ceiling is shared.
type Limits struct {
	// Scope isolates the rate window per endpoint so one endpoint's burst
	// cannot exhaust another's allowance.
	Scope        string
	MaxPerWindow int
	Window       time.Duration
	QuotaCeiling int
}

// Gate composes the rate window and the quota ledger into one decision.
type Gate struct {
	windows WindowStore
	ledger  LedgerStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

func New(windows WindowStore, ledger LedgerStore, opts ...Option) (*Gate, error) {
	if windows == nil {
		return nil, errors.New("window store is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger store is required")
	}

	g := &Gate{
		windows: windows,
		ledger:  ledger,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Check runs the admission sequence in its fixed, fail-fast order:
// identity presence, then rate window, then quota. The rate window slot is
// consumed even when the quota check rejects afterwards, so an exhausted
// user retrying in a tight loop is still bounded by the window.
func (g *Gate) Check(ctx context.Context, userID string, limits Limits) (*models.Decision, error) {
	if userID == "" {
		return g.decide(&models.Decision{Reason: models.ReasonMissingIdentity}), nil
	}

	now := requestcontext.Now(ctx)
	rate, err := g.windows.Allow(ctx, models.WindowKey(limits.Scope, userID), limits.MaxPerWindow, limits.Window, now)
	if err != nil {
		return nil, err
	}
	if !rate.Allowed {
		g.logger.Info("rate limit exceeded",
			"user_id", userID,
			"limit", rate.Limit,
			"retry_after", rate.RetryAfter,
		)
		return g.decide(&models.Decision{Reason: models.ReasonRateLimited, RateLimit: rate}), nil
	}

	usage, err := g.ledger.Peek(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usage >= limits.QuotaCeiling {
		g.logger.Info("free trial quota exhausted",
			"user_id", userID,
			"usage", usage,
			"ceiling", limits.QuotaCeiling,
		)
		return g.decide(&models.Decision{Reason: models.ReasonQuotaExhausted, RateLimit: rate}), nil
	}

	return g.decide(&models.Decision{
		Allowed:   true,
		Reason:    models.ReasonAllowed,
		Usage:     usage,
		RateLimit: rate,
	}), nil
}

// Record accounts one upstream success against the user's quota. The ledger
// re-checks the ceiling on increment as defense in depth; Check remains the
// primary gate.
func (g *Gate) Record(ctx context.Context, userID string, limits Limits) (int, error) {
	usage, incremented, err := g.ledger.IncrementIfBelow(ctx, userID, limits.QuotaCeiling)
	if err != nil {
		return 0, err
	}
	if !incremented {
		// Only reachable when concurrent successes race past Check.
		g.logger.Warn("quota increment refused at ceiling", "user_id", userID, "usage", usage)
		return usage, nil
	}
	if g.metrics != nil {
		g.metrics.IncrementQuota()
	}
	return usage, nil
}

func (g *Gate) decide(d *models.Decision) *models.Decision {
	if g.metrics != nil {
		g.metrics.ObserveDecision(string(d.Reason))
	}
	return d
}
