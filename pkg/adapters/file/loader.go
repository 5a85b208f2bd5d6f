package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/beetflow/pkg/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.TreeLoader over a directory of definition files.
// A tree named "patrol" is read from patrol.yaml, patrol.yml or patrol.json.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// GetTree reads the definition named name.
func (l *Loader) GetTree(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid tree name %q", name)
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}
	for _, c := range candidates {
		data, err := os.ReadFile(filepath.Join(l.Dir, c))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read tree %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, name)
}

// ListTrees returns the names of every definition file in the directory.
func (l *Loader) ListTrees() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isDefinition(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isDefinition(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
