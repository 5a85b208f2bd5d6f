package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/aretw0/beetflow/pkg/domain"
)

// TracePrinter writes one line per lifecycle event, indented by depth
// and coloured when the output supports it.
type TracePrinter struct {
	out   *termenv.Output
	mu    sync.Mutex
	depth map[domain.Entity]int
}

// NewTracePrinter creates a printer writing to w.
func NewTracePrinter(w io.Writer) *TracePrinter {
	return &TracePrinter{
		out:   termenv.NewOutput(w),
		depth: make(map[domain.Entity]int),
	}
}

// Hooks returns the hooks feeding the printer.
func (p *TracePrinter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRun:       p.print,
		OnEnd:       p.print,
		OnInterrupt: p.print,
	}
}

func (p *TracePrinter) print(_ context.Context, ev *domain.TraceEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := 0
	if ev.Parent != 0 {
		d = p.depth[ev.Parent] + 1
	}
	p.depth[ev.Action] = d

	name := ev.Name
	if name == "" {
		name = ev.Action.String()
	}

	var tag termenv.Style
	switch ev.Type {
	case domain.TraceRun:
		tag = p.out.String("run").Foreground(p.out.Color("#60a5fa"))
	case domain.TraceInterrupt:
		tag = p.out.String("interrupt").Foreground(p.out.Color("#fbbf24"))
	default:
		color := "#4ade80"
		if !ev.Outcome.IsPass() {
			color = "#f87171"
		}
		tag = p.out.String(string(ev.Outcome)).Foreground(p.out.Color(color)).Bold()
	}

	fmt.Fprintf(p.out, "%6d %s%s %s\n", ev.Tick, strings.Repeat("  ", d), tag, name)
}
