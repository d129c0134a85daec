package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/inet/pkg/domain"
)

// Loader implements ports.NetLoader over definitions held in memory.
// Safe for concurrent use.
type Loader struct {
	mu   sync.RWMutex
	defs map[string]*domain.Definition
}

// NewLoader creates a Loader keyed by each definition's Name.
func NewLoader(defs ...*domain.Definition) (*Loader, error) {
	l := &Loader{defs: make(map[string]*domain.Definition, len(defs))}
	for _, d := range defs {
		if err := l.Register(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register adds or replaces a definition.
func (l *Loader) Register(def *domain.Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("%w: definition missing name", domain.ErrInvalidDefinition)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[def.Name] = def.Clone()
	return nil
}

// Load returns a copy of the named definition.
func (l *Loader) Load(_ context.Context, name string) (*domain.Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetNotFound, name)
	}
	return def.Clone(), nil
}

// List returns all names in sorted order.
func (l *Loader) List(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.defs))
	for k := range l.defs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}
