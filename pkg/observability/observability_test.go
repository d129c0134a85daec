package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passEvent(redexes int, applied map[domain.Rule]int) *domain.PassEvent {
	return &domain.PassEvent{
		EventBase: domain.EventBase{Type: domain.EventPass, NetID: "n"},
		Pass:      1,
		Report:    domain.PassReport{Reachable: 4, Redexes: redexes, Applied: applied},
	}
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnRewrite(ctx, &domain.RewriteEvent{Rule: domain.RuleDuplicate, Allocated: 2})
	hooks.OnRewrite(ctx, &domain.RewriteEvent{Rule: domain.RuleErase, Allocated: 1})
	hooks.OnRewrite(ctx, &domain.RewriteEvent{Rule: domain.RuleErase, Allocated: 1})
	hooks.OnPass(ctx, passEvent(3, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rewrites.WithLabelValues("duplicate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rewrites.WithLabelValues("erase")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Allocated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes))

	count, err := testutil.GatherAndCount(reg, "inet_pass_redexes")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LoggingHooks(logging.NewWriter(&buf, slog.LevelDebug, "text"))
	ctx := context.Background()

	hooks.OnRewrite(ctx, &domain.RewriteEvent{
		EventBase: domain.EventBase{NetID: "n"},
		Rule:      domain.RuleAnnihilate,
		Left:      1,
		Right:     2,
	})
	hooks.OnPass(ctx, passEvent(1, map[domain.Rule]int{domain.RuleAnnihilate: 1, domain.RuleVoid: 2}))

	out := buf.String()
	assert.Contains(t, out, "msg=Rewrite")
	assert.Contains(t, out, "rule=annihilate")
	assert.Contains(t, out, "msg=Pass")
	assert.Contains(t, out, "rewrites=1")
}

func TestHooks_Merge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	var buf bytes.Buffer
	hooks := m.Hooks().Merge(observability.LoggingHooks(logging.NewWriter(&buf, slog.LevelInfo, "text")))

	hooks.OnPass(context.Background(), passEvent(0, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes))
	assert.Contains(t, buf.String(), "msg=Pass")
}
