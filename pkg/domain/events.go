package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRewrite EventType = "rewrite"
	EventPass    EventType = "pass"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	NetID     string    `json:"net_id,omitempty"`
}

// RewriteEvent is emitted after one rule application.
type RewriteEvent struct {
	EventBase
	Rule      Rule    `json:"rule"`
	Left      AgentID `json:"left"`
	Right     AgentID `json:"right"`
	Allocated int     `json:"allocated"`
}

// PassEvent is emitted after one driver sweep.
type PassEvent struct {
	EventBase
	Pass     int           `json:"pass"`
	Report   PassReport    `json:"report"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRewrite func(context.Context, *RewriteEvent)
	OnPass    func(context.Context, *PassEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRewrite: chain(h.OnRewrite, other.OnRewrite),
		OnPass:    chain(h.OnPass, other.OnPass),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
