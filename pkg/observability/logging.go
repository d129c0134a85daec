package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/inet/pkg/domain"
)

// LoggingHooks logs every rewrite at debug level and every pass at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRewrite: func(ctx context.Context, e *domain.RewriteEvent) {
			logger.DebugContext(ctx, "Rewrite",
				"net", e.NetID,
				"rule", e.Rule,
				"left", e.Left,
				"right", e.Right,
			)
		},
		OnPass: func(ctx context.Context, e *domain.PassEvent) {
			logger.InfoContext(ctx, "Pass",
				"net", e.NetID,
				"pass", e.Pass,
				"reachable", e.Report.Reachable,
				"redexes", e.Report.Redexes,
				"rewrites", e.Report.Rewrites(),
				"duration", e.Duration,
			)
		},
	}
}
