package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/registry"
)

// ValidateTree checks a definition before it is spawned. Action kinds and
// markers must be known and params must decode. A repeat node needs exactly
// one child and loop_times cannot be the root. State names are unique and
// every run_next target names a declared state. All problems are reported
// at once.
func ValidateTree(def *domain.TreeDef, reg *registry.Registry) error {
	var errors []string
	report := func(path []string, format string, args ...any) {
		errors = append(errors, fmt.Sprintf("%s: %s", strings.Join(path, "/"), fmt.Sprintf(format, args...)))
	}

	states := make(map[string]string)
	type jump struct {
		path []string
		next string
	}
	var jumps []jump

	def.Walk(func(n *domain.TreeDef, path []string) {
		for _, a := range n.Actions() {
			if !reg.Has(a.Action) {
				report(path, "unknown action %q", a.Action)
			} else if _, err := reg.Build(a.Action, a.Params); err != nil {
				report(path, "invalid params for %s: %v", a.Action, err)
			}
			if a.Action != "run_next" {
				continue
			}
			if next, _ := a.Params["next"].(string); next != "" {
				jumps = append(jumps, jump{path: path, next: next})
			} else {
				report(path, "run_next requires next")
			}
		}

		for _, m := range n.Markers {
			if _, ok := registry.Marker(m); !ok {
				report(path, "unknown marker %q", m)
			}
		}

		for _, a := range n.Actions() {
			switch a.Action {
			case "repeat":
				if len(n.Children) != 1 {
					report(path, "repeat needs exactly one child, has %d", len(n.Children))
				}
			case "loop_times":
				if len(path) == 1 {
					report(path, "loop_times cannot be the root")
				}
			}
		}

		if n.State != "" {
			if prev, dup := states[n.State]; dup {
				report(path, "state %q already declared at %s", n.State, prev)
			} else {
				states[n.State] = strings.Join(path, "/")
			}
		}
	})

	for _, j := range jumps {
		if _, ok := states[j.next]; !ok {
			report(j.path, "run_next targets undeclared state %q", j.next)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
