package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractSnapshot is a two-agent net with one redex and a looped eraser.
func contractSnapshot(id string) *domain.Snapshot {
	return &domain.Snapshot{
		ID:   id,
		Root: 0,
		Agents: []domain.AgentRecord{
			{Kind: domain.Constructor, Ports: [domain.Arity]domain.PortRef{
				domain.Port(1, domain.Principal), domain.Port(0, domain.Aux2), domain.Port(0, domain.Aux1),
			}},
			{Kind: domain.Eraser, Ports: [domain.Arity]domain.PortRef{
				domain.Port(0, domain.Principal), domain.NoPort, domain.NoPort,
			}},
		},
		Names:     map[string]domain.AgentID{"root": 0, "era": 1},
		Passes:    3,
		Rewrites:  2,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunNetStoreContract verifies that a NetStore implementation honours the
// interface contract.
func RunNetStoreContract(t *testing.T, store NetStore) {
	ctx := context.Background()
	netID := "contract-net-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(netID)
		require.NoError(t, store.Save(ctx, snap), "Save should not return error")

		loaded, err := store.Load(ctx, netID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.ID, loaded.ID)
		assert.Equal(t, snap.Root, loaded.Root)
		assert.Equal(t, snap.Agents, loaded.Agents)
		assert.Equal(t, snap.Names, loaded.Names)
		assert.Equal(t, snap.Passes, loaded.Passes)
		assert.Equal(t, snap.Rewrites, loaded.Rewrites)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt), "UpdatedAt survives the round trip")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := contractSnapshot(netID)
		snap.Passes = 9
		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, netID)
		require.NoError(t, err)
		assert.Equal(t, 9, loaded.Passes)
	})

	t.Run("Load Returns A Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, netID)
		require.NoError(t, err)
		loaded.Agents[0].Kind = domain.Duplicator

		again, err := store.Load(ctx, netID)
		require.NoError(t, err)
		assert.Equal(t, domain.Constructor, again.Agents[0].Kind)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+netID)
		assert.ErrorIs(t, err, domain.ErrNetNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractSnapshot(netID)))
		require.NoError(t, store.Delete(ctx, netID), "Delete should not return error")

		_, err := store.Load(ctx, netID)
		assert.ErrorIs(t, err, domain.ErrNetNotFound, "Load after Delete should return ErrNetNotFound")

		assert.NoError(t, store.Delete(ctx, netID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := netID + "-1"
		id2 := netID + "-2"
		require.NoError(t, store.Save(ctx, contractSnapshot(id1)))
		require.NoError(t, store.Save(ctx, contractSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
