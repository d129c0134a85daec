package tests

import (
	"context"
	"testing"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NetLoaderContractTest verifies that an adapter complies with
// ports.NetLoader. expected maps every name the loader holds to the
// definition it must return.
func NetLoaderContractTest(t *testing.T, loader ports.NetLoader, expected map[string]*domain.Definition) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for name, want := range expected {
			got, err := loader.Load(ctx, name)
			require.NoError(t, err, "loading %s", name)
			assert.Equal(t, want.Root, got.Root, name)
			assert.ElementsMatch(t, want.Agents, got.Agents, name)
			assert.ElementsMatch(t, want.Wires, got.Wires, name)
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-net")
		assert.ErrorIs(t, err, domain.ErrNetNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)

		want := make([]string, 0, len(expected))
		for name := range expected {
			want = append(want, name)
		}
		assert.ElementsMatch(t, want, names)
	})
}
