package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/inet"
	fileAdapter "github.com/aretw0/inet/pkg/adapters/file"
	"github.com/aretw0/inet/pkg/domain"
)

// LoadSource loads arg into the engine. An existing file is read as a
// YAML or JSON definition; anything else names a net in the library.
// It returns the id the net is stored under.
func LoadSource(ctx context.Context, engine *inet.Engine, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		def, err := fileAdapter.ReadFile(arg)
		if err != nil {
			return "", err
		}
		snap, err := engine.Load(ctx, def.Name, def)
		if err != nil {
			return "", err
		}
		return snap.ID, nil
	}

	snap, err := engine.LoadNamed(ctx, arg)
	if errors.Is(err, inet.ErrNoLoader) {
		return "", fmt.Errorf("%s is not a file and no library is configured (--dir): %w", arg, err)
	}
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}

// ReadDefinition reads a definition file without loading it.
func ReadDefinition(path string) (*domain.Definition, error) {
	return fileAdapter.ReadFile(path)
}
