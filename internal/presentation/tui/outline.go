package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/beetflow/pkg/domain"
)

// Outline describes an inspected tree as a markdown document.
func Outline(title string, nodes []domain.NodeInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(nodes) == 0 {
		sb.WriteString("_empty tree_\n")
		return sb.String()
	}

	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", n.Depth))
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("#%d", uint64(n.Entity))
		}
		fmt.Fprintf(&sb, "- **%s**", name)
		for _, k := range n.Kinds {
			fmt.Fprintf(&sb, " `%s`", k)
		}
		var notes []string
		if n.State != "" {
			notes = append(notes, "state: "+n.State)
		}
		if n.Next != "" {
			notes = append(notes, "next: "+n.Next)
		}
		if len(n.Markers) > 0 {
			notes = append(notes, "markers: "+strings.Join(n.Markers, ", "))
		}
		if n.Running {
			notes = append(notes, "running")
		}
		if len(notes) > 0 {
			fmt.Fprintf(&sb, " _(%s)_", strings.Join(notes, "; "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
