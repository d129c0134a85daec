package inet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/inet/internal/presentation/tui"
	"github.com/aretw0/inet/pkg/domain"
)

// Output formats understood by the Runner.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

// ContentRenderer transforms markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)

// Runner reduces a stored net and writes the outcome.
type Runner struct {
	Output   io.Writer
	Format   string
	Renderer ContentRenderer

	// Passes bounds the run to that many single sweeps. Zero normalises.
	Passes int
}

// Result is the JSON document written by the Runner.
type Result struct {
	Net      string           `json:"net"`
	Report   domain.Report    `json:"report"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

// Run reduces net id and writes the result. When normalisation stops at the
// pass limit the partial result is still written and the error returned.
func (r *Runner) Run(ctx context.Context, engine *Engine, id string) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	report, runErr := r.reduce(ctx, engine, id)
	if runErr != nil && !errors.Is(runErr, domain.ErrPassLimit) {
		return runErr
	}

	if err := r.write(ctx, engine, id, report); err != nil {
		return err
	}
	return runErr
}

func (r *Runner) reduce(ctx context.Context, engine *Engine, id string) (domain.Report, error) {
	if r.Passes <= 0 {
		return engine.Normalize(ctx, id)
	}

	report := domain.Report{Applied: make(map[domain.Rule]int)}
	for i := 0; i < r.Passes; i++ {
		pass, err := engine.Reduce(ctx, id)
		if err != nil {
			return report, err
		}
		report.Add(pass)
		if pass.Rewrites() == 0 {
			report.NormalForm = true
			break
		}
	}
	return report, nil
}

func (r *Runner) write(ctx context.Context, engine *Engine, id string, report domain.Report) error {
	switch r.Format {
	case FormatMermaid:
		out, err := engine.Render(ctx, id)
		if err != nil {
			return err
		}
		_, err = io.WriteString(r.Output, out)
		return err

	case FormatJSON:
		snap, err := engine.Snapshot(ctx, id)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(r.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(Result{Net: id, Report: report, Snapshot: snap})

	case FormatText, "":
		snap, err := engine.Snapshot(ctx, id)
		if err != nil {
			return err
		}
		out := tui.ReportMarkdown(id, report, len(snap.Agents))
		if r.Renderer != nil {
			if rendered, err := r.Renderer(out); err == nil {
				out = rendered
			}
		}
		_, err = io.WriteString(r.Output, out)
		return err
	}
	return fmt.Errorf("unknown output format %q", r.Format)
}
