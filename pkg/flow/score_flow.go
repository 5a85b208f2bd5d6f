package flow

import (
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// ScoreFlow asks every child for a score, runs the best one and ends with
// its outcome. Ties go to the earliest child. It fails without children.
type ScoreFlow struct {
	scores    map[ecs.Entity]domain.Score
	selecting bool
}

func (*ScoreFlow) ActionKind() ActionKind { return "score_flow" }

func (*ScoreFlow) Handlers() Handlers {
	return Handlers{
		OnRun:         scoreFlowRun,
		OnChildScore:  scoreFlowChildScore,
		OnChildEnd:    scoreFlowChildEnd,
		OnInterrupted: scoreFlowInterrupted,
	}
}

func scoreFlowRun(t *ecs.Trigger, ev domain.Run) error {
	w, ctx := t.World, t.Context()
	s, ok := ecs.Get[*ScoreFlow](w, t.Target)
	if !ok {
		return nil
	}
	children := w.Children(t.Target)
	if len(children) == 0 {
		return TriggerEnd(ctx, w, t.Target, ev.EndWith(domain.Fail))
	}
	s.scores = make(map[ecs.Entity]domain.Score, len(children))
	s.selecting = true
	for _, child := range children {
		if err := w.Trigger(ctx, child, domain.RequestScore{Parent: t.Target, Origin: ev.Origin}); err != nil {
			return err
		}
	}
	return nil
}

func scoreFlowChildScore(t *ecs.Trigger, ev domain.ChildScore) error {
	w, ctx := t.World, t.Context()
	if _, err := childIndex(w, ev.Parent, ev.Child); err != nil {
		return err
	}
	s, ok := ecs.Get[*ScoreFlow](w, ev.Parent)
	if !ok || !s.selecting {
		return nil
	}
	s.scores[ev.Child] = ev.Score

	children := w.Children(ev.Parent)
	if len(s.scores) < len(children) {
		return nil
	}
	s.selecting = false

	best := children[0]
	for _, child := range children[1:] {
		if s.scores[child] > s.scores[best] {
			best = child
		}
	}
	origin, payload := ev.Parent, any(nil)
	if r, ok := ecs.Get[*Running](w, ev.Parent); ok {
		origin, payload = r.Origin, r.Payload
	}
	Logger(w).Debug("score flow selected", "action", ev.Parent, "child", best, "score", s.scores[best])
	return TriggerRun(ctx, w, best, domain.Run{Action: best, Origin: origin, Payload: payload})
}

func scoreFlowChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	if _, err := childIndex(t.World, ev.Parent, ev.Child); err != nil {
		return err
	}
	if !IsRunning(t.World, ev.Parent) {
		return nil
	}
	return TriggerEnd(t.Context(), t.World, ev.Parent, ev.End())
}

func scoreFlowInterrupted(t *ecs.Trigger, _ domain.Interrupted) error {
	if s, ok := ecs.Get[*ScoreFlow](t.World, t.Target); ok {
		s.selecting = false
	}
	return nil
}

// TriggerScore reports score for child to parent.
func TriggerScore(t *ecs.Trigger, parent, child ecs.Entity, score domain.Score) error {
	return t.World.Trigger(t.Context(), parent, domain.ChildScore{Parent: parent, Child: child, Score: score})
}
