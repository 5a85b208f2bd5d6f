package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/beetflow/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	Visited  []domain.Entity
	Outcomes map[domain.Entity]domain.Outcome
}

var composites = map[string]bool{
	"sequence":            true,
	"fallback":            true,
	"infallible_sequence": true,
	"parallel":            true,
	"score_flow":          true,
	"repeat":              true,
}

// GenerateMermaid produces a Mermaid flowchart from an inspected tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Composite: [Rectangle]
// - Condition: {Rhombus}
// - Timed or external leaf: [[Subroutine]]
// - Other leaf: (Rounded)
// Child edges are labelled with their order; RunNext jumps are dotted.
// Overlay styles mark visited, running, passed and failed nodes.
func GenerateMermaid(nodes []domain.NodeInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	states := make(map[string]domain.Entity)
	for _, n := range nodes {
		if n.State != "" {
			states[n.State] = n.Entity
		}
	}

	for _, n := range nodes {
		opener, closer := shape(n)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(n.Entity), opener, label(n), closer))

		for i, c := range n.Children {
			sb.WriteString(fmt.Sprintf("    %s -- \"%d\" --> %s\n", nodeID(n.Entity), i+1, nodeID(c)))
		}
		if n.Next != "" {
			if to, ok := states[n.Next]; ok {
				sb.WriteString(fmt.Sprintf("    %s -. \"next\" .-> %s\n", nodeID(n.Entity), nodeID(to)))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef passed fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Entity]bool)
		for _, e := range overlay.Visited {
			if !seen[e] {
				seen[e] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(e)))
			}
		}
		for _, n := range nodes {
			switch o, ok := overlay.Outcomes[n.Entity]; {
			case n.Running:
				sb.WriteString(fmt.Sprintf("    class %s running;\n", nodeID(n.Entity)))
			case ok && o.IsPass():
				sb.WriteString(fmt.Sprintf("    class %s passed;\n", nodeID(n.Entity)))
			case ok:
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", nodeID(n.Entity)))
			}
		}
	}

	return sb.String()
}

func shape(n domain.NodeInfo) (string, string) {
	switch {
	case n.Depth == 0:
		return "((", "))"
	case len(n.Children) > 0 || hasKind(n, composites):
		return "[", "]"
	case hasKind(n, map[string]bool{"condition": true}):
		return "{", "}"
	case hasKind(n, map[string]bool{"end_in_duration": true, "behaviortree": true}):
		return "[[", "]]"
	}
	return "(", ")"
}

func hasKind(n domain.NodeInfo, set map[string]bool) bool {
	for _, k := range n.Kinds {
		if set[k] {
			return true
		}
	}
	return false
}

func label(n domain.NodeInfo) string {
	name := n.Name
	if name == "" {
		name = n.Entity.String()
	}
	name = strings.ReplaceAll(name, "\"", "'")
	if len(n.Kinds) == 0 {
		return name
	}
	return fmt.Sprintf("%s <br/> %s", name, strings.Join(n.Kinds, ", "))
}

func nodeID(e domain.Entity) string {
	return fmt.Sprintf("n%d", uint64(e))
}
