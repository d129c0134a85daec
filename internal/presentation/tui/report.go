package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/inet/pkg/domain"
)

// ReportMarkdown summarises a normalisation as markdown.
func ReportMarkdown(netID string, rep domain.Report, agents int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", netID)

	status := "**normal form reached**"
	if !rep.NormalForm {
		status = "*not in normal form*"
	}
	fmt.Fprintf(&sb, "%s after %d passes, %d rewrites.\n\n", status, rep.Passes, rep.Rewrites)
	fmt.Fprintf(&sb, "Arena holds %d agents (%d allocated during reduction).\n\n", agents, rep.Allocated)

	sb.WriteString(PassMarkdown(rep.Applied))
	return sb.String()
}

// PassMarkdown renders rule counts as a table. Rules never applied are omitted.
func PassMarkdown(applied map[domain.Rule]int) string {
	var sb strings.Builder
	sb.WriteString("| Rule | Applications |\n|---|---:|\n")
	rows := 0
	for _, rule := range domain.Rules {
		if n := applied[rule]; n > 0 {
			fmt.Fprintf(&sb, "| %s | %d |\n", rule, n)
			rows++
		}
	}
	if rows == 0 {
		sb.WriteString("| *none* | 0 |\n")
	}
	return sb.String()
}
