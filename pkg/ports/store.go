package ports

import (
	"context"

	"github.com/aretw0/inet/pkg/domain"
)

// NetStore persists snapshots of reduced or partially reduced nets.
type NetStore interface {
	// Save persists the snapshot under its ID, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the snapshot for id.
	// Returns domain.ErrNetNotFound if the net does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes the snapshot for id. Deleting a missing net is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored net.
	List(ctx context.Context) ([]string, error)
}
