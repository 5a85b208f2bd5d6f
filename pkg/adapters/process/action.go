package process

import (
	"context"
	"fmt"
	"maps"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/registry"
)

// Action runs a process as a leaf. It stays running while the process runs
// and ends with Pass on a zero exit. Interrupting it, removing it or
// despawning its entity kills the process.
type Action struct {
	Tool    string         `mapstructure:"tool"`
	Command string         `mapstructure:"command"`
	Args    []string       `mapstructure:"args"`
	Env     map[string]any `mapstructure:"env"`
	// SaveTo names the blackboard key receiving the output.
	SaveTo string `mapstructure:"save_to"`

	// Last is the result of the last finished run.
	Last *Result `mapstructure:"-"`
	job  *job
}

type job struct {
	cancel context.CancelFunc
	done   chan execution
}

type execution struct {
	res Result
	err error
}

func (*Action) ActionKind() flow.ActionKind { return "process" }

func (*Action) Handlers() flow.Handlers {
	return flow.Handlers{
		OnRun:         startAction,
		OnInterrupted: stopAction,
	}
}

func (*Action) Requires() []any { return []any{&flow.ContinueRun{}} }

func (a *Action) label() string {
	if a.Tool != "" {
		return a.Tool
	}
	return a.Command
}

func (a *Action) stop() {
	if a.job != nil {
		a.job.cancel()
		a.job = nil
	}
}

func startAction(t *ecs.Trigger, ev domain.Run) error {
	a, ok := ecs.Get[*Action](t.World, t.Target)
	if !ok {
		return nil
	}
	a.stop()

	runner, ok := ecs.Resource[*Runner](t.World)
	if !ok {
		flow.Logger(t.World).Warn("no process runner installed", "entity", t.Target, "name", t.World.Name(t.Target))
		return flow.Finish(t.Context(), t.World, t.Target, domain.Fail)
	}

	env := make(map[string]any)
	if payload, ok := ev.Payload.(map[string]any); ok {
		maps.Copy(env, payload)
	}
	maps.Copy(env, a.Env)
	call := Call{Tool: a.Tool, Command: a.Command, Args: a.Args, Env: env}

	// The process outlives the tick that started it.
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan execution, 1)}
	a.job = j
	go func() {
		res, err := runner.Execute(ctx, call)
		j.done <- execution{res: res, err: err}
	}()
	return nil
}

func stopAction(t *ecs.Trigger, _ domain.Interrupted) error {
	if a, ok := ecs.Get[*Action](t.World, t.Target); ok {
		a.stop()
	}
	return nil
}

func removeAction(w *ecs.World, e ecs.Entity) {
	if a, ok := ecs.Get[*Action](w, e); ok {
		a.stop()
	}
}

func pollActions(ctx context.Context, w *ecs.World) error {
	for _, e := range ecs.Query[*Action](w) {
		a, _ := ecs.Get[*Action](w, e)
		if a.job == nil || !flow.IsRunning(w, e) {
			continue
		}
		var ex execution
		select {
		case ex = <-a.job.done:
		default:
			continue
		}
		a.job.cancel()
		a.job = nil
		a.Last = &ex.res

		outcome := domain.Pass
		if ex.err != nil {
			outcome = domain.Fail
			flow.Logger(w).Warn("process failed", "entity", e, "name", w.Name(e), "tool", a.label(), "exit_code", ex.res.ExitCode, "error", ex.err)
		} else if a.SaveTo != "" {
			flow.BlackboardOf(w).Set(a.SaveTo, ex.res.Output)
		}
		if err := flow.Finish(ctx, w, e, outcome); err != nil {
			return err
		}
	}
	return nil
}

// Plugin installs runner, the system ending finished processes and the hook
// killing the process of a removed action.
type Plugin struct {
	Runner *Runner
}

// Build implements ecs.Plugin.
func (p Plugin) Build(app *ecs.App) {
	runner := p.Runner
	if runner == nil {
		runner = NewRunner()
	}
	w := app.World()
	w.SetResource(runner)
	ecs.RegisterHooks[*Action](w, ecs.ComponentHooks{OnRemove: removeAction})
	app.AddSystem(ecs.Tick, "process", pollActions)
}

// Register adds the "process" action to reg.
func Register(reg *registry.Registry) {
	reg.Register("process", func(params map[string]any) (flow.Action, error) {
		var a Action
		if err := registry.DecodeParams(params, &a); err != nil {
			return nil, err
		}
		if a.Tool == "" && a.Command == "" {
			return nil, fmt.Errorf("process requires tool or command")
		}
		return &a, nil
	})
}
