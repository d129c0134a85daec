package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/pkg/domain"
)

// DefaultMaxPasses bounds Normalize when no limit is configured.
const DefaultMaxPasses = 10000

// Engine drives reduction of nets held in an arena.
// It keeps no per-net state and can be shared across nets.
type Engine struct {
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxPasses int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxPasses bounds the number of sweeps Normalize may perform.
func WithMaxPasses(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    logging.NewNop(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxPasses returns the configured pass limit.
func (e *Engine) MaxPasses() int {
	return e.maxPasses
}

func (e *Engine) emitRewrite(ctx context.Context, netID string, rule domain.Rule, left, right domain.AgentID) {
	if e.hooks.OnRewrite == nil {
		return
	}
	e.hooks.OnRewrite(ctx, &domain.RewriteEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventRewrite,
			NetID:     netID,
		},
		Rule:      rule,
		Left:      left,
		Right:     right,
		Allocated: rule.Allocates(),
	})
}

func (e *Engine) emitPass(ctx context.Context, netID string, pass int, report domain.PassReport, took time.Duration) {
	if e.hooks.OnPass == nil {
		return
	}
	e.hooks.OnPass(ctx, &domain.PassEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventPass,
			NetID:     netID,
		},
		Pass:     pass,
		Report:   report,
		Duration: took,
	})
}
