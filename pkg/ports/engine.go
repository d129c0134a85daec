package ports

import (
	"context"

	"github.com/aretw0/inet/pkg/domain"
)

// NetEngine is the surface transports drive. Every operation addresses a
// stored net by id.
type NetEngine interface {
	// Load validates def, builds it and stores the result under id.
	Load(ctx context.Context, id string, def *domain.Definition) (*domain.Snapshot, error)

	// LoadNamed resolves name through the configured loader and stores it
	// under the same id.
	LoadNamed(ctx context.Context, name string) (*domain.Snapshot, error)

	// Reduce runs one sweep of the driver.
	Reduce(ctx context.Context, id string) (domain.PassReport, error)

	// Normalize sweeps until no rewrite applies.
	Normalize(ctx context.Context, id string) (domain.Report, error)

	// Inspect returns one agent, addressed by definition name or numeric id.
	Inspect(ctx context.Context, id, agent string) (domain.AgentView, error)

	// Snapshot returns the stored arena.
	Snapshot(ctx context.Context, id string) (*domain.Snapshot, error)

	// Render returns the Mermaid diagram of the net reachable from its root.
	Render(ctx context.Context, id string) (string, error)

	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
