package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/pkg/domain"
)

// InspectOptions configures the inspect command.
type InspectOptions struct {
	Source string
	// Agent selects one agent by name or index; empty lists the arena.
	Agent  string
	Format string
}

// Inspect loads opts.Source and writes the requested agents to out.
func Inspect(ctx context.Context, engine *inet.Engine, opts InspectOptions, out io.Writer) error {
	id, err := LoadSource(ctx, engine, opts.Source)
	if err != nil {
		return err
	}
	snap, err := engine.Snapshot(ctx, id)
	if err != nil {
		return err
	}

	var views []domain.AgentView
	if opts.Agent != "" {
		v, err := engine.Inspect(ctx, id, opts.Agent)
		if err != nil {
			return err
		}
		views = append(views, v)
	} else {
		for i := range snap.Agents {
			v, err := engine.Inspect(ctx, id, strconv.Itoa(i))
			if err != nil {
				return err
			}
			views = append(views, v)
		}
	}

	if opts.Format == inet.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	names := make(map[domain.AgentID]string, len(snap.Names))
	for name, aid := range snap.Names {
		names[aid] = name
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tNAME\tKIND\tPORT 0\tPORT 1\tPORT 2")
	for _, v := range views {
		name := names[v.ID]
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", v.ID, name, v.Kind, v.Ports[0], v.Ports[1], v.Ports[2])
	}
	return tw.Flush()
}
