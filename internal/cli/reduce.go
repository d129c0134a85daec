package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/inet"
)

// ReduceOptions configures the reduce command.
type ReduceOptions struct {
	// Source is a definition file or the name of a net in the library.
	Source string
	// Passes limits the run to that many sweeps; zero normalises.
	Passes int
	Format string
}

// Reduce loads opts.Source and writes the outcome of reducing it to out.
func Reduce(ctx context.Context, engine *inet.Engine, opts ReduceOptions, out io.Writer) error {
	id, err := LoadSource(ctx, engine, opts.Source)
	if err != nil {
		return err
	}

	r := &inet.Runner{
		Output: out,
		Format: opts.Format,
		Passes: opts.Passes,
	}
	if opts.Format == "" || opts.Format == inet.FormatText {
		r.Renderer = rendererFor(out)
	}
	return r.Run(ctx, engine, id)
}

// RunWatch reduces opts.Source and reduces it again each time the library
// reports a change to it, until ctx is done.
func RunWatch(ctx context.Context, engine *inet.Engine, opts ReduceOptions, out io.Writer, logger *slog.Logger) error {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("--watch needs a library (--dir): %w", err)
	}

	run := func() {
		if err := Reduce(ctx, engine, opts, out); err != nil && !IsInterrupted(err) {
			logger.Error("Reduction failed", "net", opts.Source, "err", err)
			printSystemMessage(out, "Reduction of '%s' failed: %v", opts.Source, err)
		}
	}

	logger.Info("Starting Watcher", "net", opts.Source)
	run()
	printSystemMessage(out, "Waiting for changes...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-changes:
			if !ok {
				return nil
			}
			if name != opts.Source {
				continue
			}
			logger.Info("Change detected, reducing again", "net", name)
			printSystemMessage(out, "Change detected in '%s'.", name)
			// Let the file system settle.
			time.Sleep(100 * time.Millisecond)
			run()
			printSystemMessage(out, "Waiting for changes...")
		}
	}
}
