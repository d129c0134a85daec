package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/inet/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(context.Context, *domain.Snapshot) error           { return nil }
func (nopStore) Load(context.Context, string) (*domain.Snapshot, error) { return nil, nil }
func (nopStore) Delete(context.Context, string) error                   { return nil }
func (nopStore) List(context.Context) ([]string, error)                 { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("net-%d", i)
		_ = mgr.Save(ctx, &domain.Snapshot{ID: id})
		_ = mgr.Delete(ctx, id)
	}

	if n := len(mgr.locks); n != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", n)
	}
}
