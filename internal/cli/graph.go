package cli

import (
	"context"
	"errors"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/internal/presentation/graph"
	"github.com/aretw0/beetflow/internal/presentation/tui"
	"github.com/aretw0/beetflow/pkg/adapters/memory"
	"github.com/aretw0/beetflow/pkg/domain"
)

// GraphOptions configures Graph.
type GraphOptions struct {
	Dir   string
	Tools string
	// Execute runs the tree first and overlays what happened.
	Execute  bool
	MaxTicks int
}

// Graph returns the Mermaid diagram of the tree arg refers to.
func Graph(ctx context.Context, arg string, opts GraphOptions) (string, error) {
	engineOpts, err := EngineOptions(opts.Dir, opts.Tools)
	if err != nil {
		return "", err
	}
	if !opts.Execute {
		eng, root, err := Open(ctx, arg, opts.Dir, engineOpts...)
		if err != nil {
			return "", err
		}
		return graph.GenerateMermaid(eng.Inspect(root), nil), nil
	}

	engineOpts = append(engineOpts, beetflow.WithTraceStore(memory.NewStore()))
	eng, root, err := Open(ctx, arg, opts.Dir, engineOpts...)
	if err != nil {
		return "", err
	}
	runner := &beetflow.Runner{MaxTicks: opts.MaxTicks}
	if _, err := runner.Run(ctx, eng, root, nil); err != nil && !errors.Is(err, beetflow.ErrTickBudget) {
		return "", err
	}
	nodes := eng.Inspect(root)
	eng.FlushTraces(ctx)
	return graph.GenerateMermaid(nodes, Overlay(eng.Traces())), nil
}

// Overlay collects the actions that ran and how they ended.
func Overlay(traces []*domain.Trace) *graph.GraphOverlay {
	o := &graph.GraphOverlay{Outcomes: make(map[domain.Entity]domain.Outcome)}
	for _, t := range traces {
		for _, ev := range t.Events {
			switch ev.Type {
			case domain.TraceRun:
				o.Visited = append(o.Visited, ev.Action)
			case domain.TraceEnd:
				o.Outcomes[ev.Action] = ev.Outcome
			}
		}
	}
	return o
}

// Describe returns the markdown outline of the tree arg refers to.
func Describe(ctx context.Context, arg, dir, tools string) (string, error) {
	engineOpts, err := EngineOptions(dir, tools)
	if err != nil {
		return "", err
	}
	eng, root, err := Open(ctx, arg, dir, engineOpts...)
	if err != nil {
		return "", err
	}
	_, name, err := ReadSource(arg, dir)
	if err != nil {
		return "", err
	}
	return tui.Outline(name, eng.Inspect(root)), nil
}
