package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown("dup", domain.Report{
		Passes:     3,
		Rewrites:   3,
		Allocated:  4,
		NormalForm: true,
		Applied:    map[domain.Rule]int{domain.RuleDuplicate: 1, domain.RuleErase: 2},
	}, 9)

	assert.True(t, strings.HasPrefix(md, "# dup\n"))
	assert.Contains(t, md, "normal form reached")
	assert.Contains(t, md, "after 3 passes, 3 rewrites")
	assert.Contains(t, md, "9 agents (4 allocated")
	assert.Contains(t, md, "| duplicate | 1 |")
	assert.Contains(t, md, "| erase | 2 |")
	assert.NotContains(t, md, "annihilate")
	assert.Less(t, strings.Index(md, "duplicate"), strings.Index(md, "erase"), "rows follow rule order")
}

func TestPassMarkdown_Empty(t *testing.T) {
	assert.Contains(t, PassMarkdown(nil), "*none*")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `|_|_| |_|`)
}
