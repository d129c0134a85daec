package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/inet/pkg/domain"
	"gopkg.in/yaml.v3"
)

var extensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// Loader implements ports.NetLoader over a definition file or a directory
// of them. Files are re-read on every Load.
type Loader struct {
	path string
}

// NewLoader serves a single file or every .yaml, .yml and .json file in a
// directory. Names are file names without extension.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Decode reads one definition. YAML and JSON are both accepted; unknown
// fields are rejected.
func Decode(r io.Reader) (*domain.Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def domain.Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	return &def, nil
}

// ReadFile decodes the definition stored at path. An empty Name is filled
// from the file name.
func ReadFile(path string) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNetNotFound, path)
		}
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = stem(path)
	}
	return def, nil
}

// Load reads the named definition.
func (l *Loader) Load(_ context.Context, name string) (*domain.Definition, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	path, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetNotFound, name)
	}
	return ReadFile(path)
}

// List returns the definition names in sorted order.
func (l *Loader) List(_ context.Context) ([]string, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) files() (map[string]string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", l.path, err)
	}
	if !info.IsDir() {
		return map[string]string{stem(l.path): l.path}, nil
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	files := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		name := stem(e.Name())
		if prev, dup := files[name]; dup {
			return nil, fmt.Errorf("collision detected: %q is defined in both %s and %s", name, filepath.Base(prev), e.Name())
		}
		files[name] = filepath.Join(l.path, e.Name())
	}
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
