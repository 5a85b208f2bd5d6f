package compiler

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/beetflow/pkg/domain"
)

// Parser is responsible for converting raw bytes into a TreeDef.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML (or JSON, which is valid YAML) tree definition.
// Every node must name an action.
func (p *Parser) Parse(data []byte) (*domain.TreeDef, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty tree definition")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def domain.TreeDef
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}

	var missing []string
	def.Walk(func(n *domain.TreeDef, path []string) {
		if n.Action == "" {
			missing = append(missing, pathString(path))
		}
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("node missing action: %v", missing)
	}
	return &def, nil
}

func pathString(path []string) string {
	var b bytes.Buffer
	for i, p := range path {
		if i > 0 {
			b.WriteByte('/')
		}
		if p == "" {
			p = "?"
		}
		b.WriteString(p)
	}
	return b.String()
}
