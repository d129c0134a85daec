package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eraseNet = `name: erase
root: root
agents:
  - {name: root, kind: con}
  - {name: c, kind: con}
  - {name: e, kind: era}
wires:
  - {from: c.0, to: e.0}
  - {from: c.1, to: root.1}
  - {from: c.2, to: root.2}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "inet version ")
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eraseNet), 0644))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Net 'erase' is valid!")
}

func TestGraphCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eraseNet), 0644))

	out, err := execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
}

func TestReduceCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eraseNet), 0644))

	out, err := execute(t, "reduce", "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"erase": 1`)
}

func TestConfigFlag_Missing(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version")
	assert.Error(t, err)
}
