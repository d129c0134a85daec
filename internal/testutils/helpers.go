package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam
// repository in it. It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	if len(opts) == 0 {
		opts = []loam.Option{loam.WithVersioning(false)}
	}
	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles seeds dir with name → content.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

// Erasure is the inspector scenario: a constructor whose first auxiliary
// port holds an eraser and whose second holds a duplicator looping its own
// auxiliary ports. It contains no redex.
func Erasure() *domain.Definition {
	return &domain.Definition{
		Name: "erasure",
		Root: "root",
		Agents: []domain.AgentDef{
			{Name: "root", Kind: domain.Constructor},
			{Name: "era", Kind: domain.Eraser},
			{Name: "body", Kind: domain.Duplicator},
		},
		Wires: []domain.Wire{
			{From: "root.1", To: "era.0"},
			{From: "root.2", To: "body.0"},
			{From: "body.1", To: "body.2"},
		},
	}
}

// Annihilation holds one constructor pair hanging off a constructor root.
// It normalises in two passes to a root whose auxiliary ports face each
// other.
func Annihilation() *domain.Definition {
	return &domain.Definition{
		Name: "annihilation",
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

// Duplication holds a constructor/duplicator pair whose duplicator side is
// capped by erasers. It normalises with one duplicate and two erasures.
func Duplication() *domain.Definition {
	return &domain.Definition{
		Name: "duplication",
		Root: "root",
		Agents: []domain.AgentDef{
			{Name: "root", Kind: domain.Constructor},
			{Name: "a", Kind: domain.Constructor},
			{Name: "b", Kind: domain.Duplicator},
			{Name: "e1", Kind: domain.Eraser},
			{Name: "e2", Kind: domain.Eraser},
		},
		Wires: []domain.Wire{
			{From: "a.0", To: "b.0"},
			{From: "a.1", To: "root.1"},
			{From: "a.2", To: "root.2"},
			{From: "b.1", To: "e1.0"},
			{From: "b.2", To: "e2.0"},
		},
	}
}
