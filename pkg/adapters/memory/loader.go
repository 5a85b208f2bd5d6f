package memory

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/beetflow/pkg/domain"
)

// Loader implements ports.TreeLoader using an in-memory map.
type Loader struct {
	trees map[string][]byte
}

// NewLoader creates a new Loader with the provided raw definitions (YAML or JSON).
func NewLoader(data map[string]string) *Loader {
	trees := make(map[string][]byte)
	for k, v := range data {
		trees[k] = []byte(v)
	}
	return &Loader{
		trees: trees,
	}
}

// NewFromDefs creates a new Loader from definitions, keyed by their label.
// This handles serialization automatically, improving DX for tests.
func NewFromDefs(defs ...domain.TreeDef) (*Loader, error) {
	data := make(map[string][]byte)
	for _, d := range defs {
		name := d.Label()
		if name == "" {
			return nil, fmt.Errorf("tree missing name")
		}
		bytes, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tree %s: %w", name, err)
		}
		data[name] = bytes
	}
	return &Loader{trees: data}, nil
}

// GetTree retrieves the raw definition of a tree by name.
func (l *Loader) GetTree(name string) ([]byte, error) {
	content, ok := l.trees[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, name)
	}
	return content, nil
}

// ListTrees returns all available tree names.
func (l *Loader) ListTrees() ([]string, error) {
	keys := make([]string, 0, len(l.trees))
	for k := range l.trees {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
