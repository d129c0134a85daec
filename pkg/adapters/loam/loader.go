package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam document library to ports.NetLoader.
type Loader struct {
	Repo *loam.TypedRepository[NetMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[NetMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initialises a read-only, strict Loam repository at path.
// The engine never writes to the library.
func Open(path string) (*Loader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NetMetadata](repo)), nil
}

// Load resolves name against the normalised document ids.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Definition, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	meta, ok := index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetNotFound, name)
	}
	return toDefinition(name, meta)
}

// List returns every net id in the library.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	return ids, nil
}

// index maps normalised ids to metadata. Two documents resolving to the
// same id are an error.
func (l *Loader) index(ctx context.Context) (map[string]NetMetadata, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	index := make(map[string]NetMetadata, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, prev, doc.ID)
		}
		seen[id] = doc.ID
		index[id] = doc.Data
	}
	return index, nil
}

func toDefinition(name string, meta NetMetadata) (*domain.Definition, error) {
	def := &domain.Definition{
		Name:   name,
		Root:   meta.Root,
		Agents: make([]domain.AgentDef, 0, len(meta.Agents)),
		Wires:  make([]domain.Wire, 0, len(meta.Wires)),
	}
	for _, a := range meta.Agents {
		kind, err := domain.ParseKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: agent %q: %w", name, a.Name, err)
		}
		def.Agents = append(def.Agents, domain.AgentDef{Name: a.Name, Kind: kind})
	}
	for _, w := range meta.Wires {
		def.Wires = append(def.Wires, domain.Wire{From: domain.PortName(w.From), To: domain.PortName(w.To)})
	}
	return def, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
