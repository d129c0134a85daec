package ports

import (
	"context"

	"github.com/aretw0/inet/pkg/domain"
)

// NetLoader resolves net definitions by name.
// The returned definition is not validated; callers validate before building.
type NetLoader interface {
	// Load returns the definition registered under name.
	// Returns domain.ErrNetNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.Definition, error)

	// List returns the names of every definition the loader can resolve.
	List(ctx context.Context) ([]string, error)
}

// Watchable is implemented by loaders that can report backend changes.
type Watchable interface {
	// Watch emits the name of a definition each time it changes on disk.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
