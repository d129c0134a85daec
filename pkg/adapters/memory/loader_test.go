package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/inet/pkg/adapters/memory"
	"github.com/aretw0/inet/pkg/domain"
	contract "github.com/aretw0/inet/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair() *domain.Definition {
	return &domain.Definition{
		Name: "pair",
		Root: "root",
		Agents: []domain.AgentDef{
			{Name: "root", Kind: domain.Constructor},
			{Name: "a", Kind: domain.Constructor},
			{Name: "b", Kind: domain.Constructor},
		},
		Wires: []domain.Wire{
			{From: "a.0", To: "b.0"},
			{From: "a.1", To: "root.1"},
			{From: "b.1", To: "root.2"},
			{From: "a.2", To: "b.2"},
		},
	}
}

func eraser() *domain.Definition {
	return &domain.Definition{
		Name:   "eraser",
		Root:   "e",
		Agents: []domain.AgentDef{{Name: "e", Kind: domain.Eraser}},
	}
}

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewLoader(pair(), eraser())
	require.NoError(t, err)

	contract.NetLoaderContractTest(t, loader, map[string]*domain.Definition{
		"pair":   pair(),
		"eraser": eraser(),
	})
}

func TestInMemoryLoader_RejectsUnnamed(t *testing.T) {
	_, err := memory.NewLoader(&domain.Definition{Root: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	loader, err := memory.NewLoader(pair())
	require.NoError(t, err)

	def, err := loader.Load(context.Background(), "pair")
	require.NoError(t, err)
	def.Agents[0].Kind = domain.Eraser

	again, err := loader.Load(context.Background(), "pair")
	require.NoError(t, err)
	assert.Equal(t, domain.Constructor, again.Agents[0].Kind)
}
