package flow

import (
	"fmt"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// RepeatFlow runs its only child and, when the child's outcome matches
// IfResultMatches, runs itself again on the next tick. A nil IfResultMatches
// repeats forever. A mismatch ends the RepeatFlow with the child's outcome.
type RepeatFlow struct {
	IfResultMatches *domain.Outcome `mapstructure:"if_result_matches"`
}

// Repeat repeats whatever the outcome.
func Repeat() *RepeatFlow { return &RepeatFlow{} }

// RepeatWhile repeats while the child ends with o.
func RepeatWhile(o domain.Outcome) *RepeatFlow { return &RepeatFlow{IfResultMatches: &o} }

// RepeatIfSuccess repeats while the child passes.
func RepeatIfSuccess() *RepeatFlow { return RepeatWhile(domain.Success) }

func (*RepeatFlow) ActionKind() ActionKind { return "repeat" }

func (*RepeatFlow) Handlers() Handlers {
	return Handlers{OnRun: repeatRun, OnChildEnd: repeatChildEnd}
}

func (r *RepeatFlow) matches(o domain.Outcome) bool {
	return r.IfResultMatches == nil || *r.IfResultMatches == o
}

func repeatRun(t *ecs.Trigger, ev domain.Run) error {
	w := t.World
	children := w.Children(t.Target)
	if len(children) == 0 {
		return fmt.Errorf("repeat %s: %w", t.Target, domain.ErrNoChildren)
	}
	return TriggerRun(t.Context(), w, children[0], ev.Forward(children[0]))
}

func repeatChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	w := t.World
	if _, err := childIndex(w, ev.Parent, ev.Child); err != nil {
		return err
	}
	r, ok := ecs.Get[*RepeatFlow](w, ev.Parent)
	if !ok || !IsRunning(w, ev.Parent) {
		return nil
	}
	if !r.matches(ev.Outcome) {
		return TriggerEnd(t.Context(), w, ev.Parent, ev.End())
	}
	w.Insert(ev.Parent, &RunOnSpawn{Origin: ev.Origin, Payload: runPayload(w, ev.Parent)})
	return nil
}

// LoopTimes sits at the end of a sequence-like parent. Each time it runs it
// re-runs the parent's first child on the next tick, staying Running, until
// it has done so MaxTimes times; then it passes and resets its counter.
type LoopTimes struct {
	MaxTimes int `mapstructure:"max_times"`
	times    int
}

// NewLoopTimes loops n times.
func NewLoopTimes(n int) *LoopTimes { return &LoopTimes{MaxTimes: n} }

// Times returns the number of loops done in the current cycle.
func (l *LoopTimes) Times() int { return l.times }

func (*LoopTimes) ActionKind() ActionKind { return "loop_times" }

func (*LoopTimes) Handlers() Handlers {
	return Handlers{OnRun: loopTimesRun, OnInterrupted: loopTimesInterrupted}
}

func loopTimesRun(t *ecs.Trigger, ev domain.Run) error {
	w := t.World
	l, ok := ecs.Get[*LoopTimes](w, t.Target)
	if !ok {
		return nil
	}
	parent, ok := w.Parent(t.Target)
	if !ok {
		return fmt.Errorf("loop times %s: %w", t.Target, domain.ErrNoParent)
	}
	if l.times >= l.MaxTimes {
		l.times = 0
		return TriggerEnd(t.Context(), w, t.Target, ev.EndWith(domain.Pass))
	}
	l.times++
	first := w.Children(parent)[0]
	w.Insert(first, &RunOnSpawn{Origin: ev.Origin, Payload: ev.Payload})
	return nil
}

// loopTimesInterrupted resets the counter and cancels the pending re-run of
// the first sibling, which lies outside the swept subtree.
func loopTimesInterrupted(t *ecs.Trigger, _ domain.Interrupted) error {
	w := t.World
	l, ok := ecs.Get[*LoopTimes](w, t.Target)
	if !ok {
		return nil
	}
	if l.times > 0 {
		if parent, ok := w.Parent(t.Target); ok {
			if first := w.Children(parent)[0]; first != t.Target {
				ecs.Remove[*RunOnSpawn](w, first)
			}
		}
	}
	l.times = 0
	return nil
}

// RunNext runs the state registered as Next once its own entity ended with
// an outcome matching IfResultMatches, or with any outcome when it is nil.
// The jump happens on the next tick and keeps the origin of the run.
type RunNext struct {
	Next            string          `mapstructure:"next"`
	IfResultMatches *domain.Outcome `mapstructure:"if_result_matches"`
}

// NewRunNext jumps to state on any outcome.
func NewRunNext(state string) *RunNext { return &RunNext{Next: state} }

// RunNextIf jumps to state when the outcome is o.
func RunNextIf(state string, o domain.Outcome) *RunNext {
	return &RunNext{Next: state, IfResultMatches: &o}
}

func (*RunNext) ActionKind() ActionKind { return "run_next" }

func (*RunNext) Handlers() Handlers {
	return Handlers{OnEnd: runNextEnd}
}

func runNextEnd(t *ecs.Trigger, ev domain.End) error {
	w := t.World
	r, ok := ecs.Get[*RunNext](w, t.Target)
	if !ok {
		return nil
	}
	if r.IfResultMatches != nil && *r.IfResultMatches != ev.Outcome {
		return nil
	}
	next, ok := LookupState(w, t.Target, r.Next)
	if !ok || !w.Alive(next) {
		return fmt.Errorf("run next %s -> %q: %w", t.Target, r.Next, domain.ErrUnknownState)
	}
	Logger(w).Debug("run next", "action", t.Target, "next", next, "state", r.Next)
	w.Insert(next, &RunOnSpawn{Origin: ev.Origin})
	return nil
}
