package validator

import (
	"testing"

	"github.com/aretw0/inet/internal/testutils"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	for _, def := range []*domain.Definition{testutils.Erasure(), testutils.Annihilation(), testutils.Duplication()} {
		assert.NoError(t, Validate(def), def.Name)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	def := &domain.Definition{
		Root: "ghost",
		Agents: []domain.AgentDef{
			{Name: "a", Kind: domain.Constructor},
			{Name: "a", Kind: domain.Eraser},
			{Name: "", Kind: domain.Eraser},
			{Name: "b.c", Kind: domain.Duplicator},
			{Name: "z", Kind: domain.Kind(9)},
		},
		Wires: []domain.Wire{
			{From: "a.0", To: "z.0"},
			{From: "a.0", To: "nobody.1"},
			{From: "a.7", To: "z.1"},
			{From: "z.2", To: "z.2"},
		},
	}

	err := Validate(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	msg := err.Error()
	for _, want := range []string{
		`duplicate agent "a"`,
		"agent #2 has no name",
		`agent name "b.c" contains '.'`,
		`agent "z" has invalid kind`,
		`root "ghost" is not an agent`,
		"port a.0 is wired more than once",
		`unknown agent "nobody"`,
		`malformed port "a.7"`,
		"joins z.2 to itself",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_MissingRoot(t *testing.T) {
	err := Validate(&domain.Definition{Agents: []domain.AgentDef{{Name: "x", Kind: domain.Eraser}}})
	assert.ErrorContains(t, err, "root is not set")
	assert.ErrorIs(t, Validate(nil), domain.ErrInvalidDefinition)
}

func TestUnreachable(t *testing.T) {
	def := testutils.Erasure()
	assert.Empty(t, Unreachable(def))

	def.Agents = append(def.Agents,
		domain.AgentDef{Name: "island", Kind: domain.Constructor},
		domain.AgentDef{Name: "atoll", Kind: domain.Eraser},
	)
	def.Wires = append(def.Wires, domain.Wire{From: "island.0", To: "atoll.0"})

	assert.Equal(t, []string{"atoll", "island"}, Unreachable(def))
}
