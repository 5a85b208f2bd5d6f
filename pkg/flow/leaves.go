package flow

import (
	"context"
	"time"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// EndWith ends with Outcome as soon as it runs.
type EndWith struct {
	Outcome domain.Outcome `mapstructure:"outcome"`
}

// Succeed returns an EndWith that passes.
func Succeed() *EndWith { return &EndWith{Outcome: domain.Pass} }

// Fail returns an EndWith that fails.
func Fail() *EndWith { return &EndWith{Outcome: domain.Fail} }

func (*EndWith) ActionKind() ActionKind { return "end_with" }

func (*EndWith) Handlers() Handlers {
	return Handlers{OnRun: func(t *ecs.Trigger, ev domain.Run) error {
		e, ok := ecs.Get[*EndWith](t.World, t.Target)
		if !ok {
			return nil
		}
		return TriggerEnd(t.Context(), t.World, t.Target, ev.EndWith(e.Outcome))
	}}
}

// SucceedTimes passes for its first Times runs and fails afterwards.
type SucceedTimes struct {
	Times int `mapstructure:"times"`
	count int
}

func (*SucceedTimes) ActionKind() ActionKind { return "succeed_times" }

func (*SucceedTimes) Handlers() Handlers {
	return Handlers{OnRun: func(t *ecs.Trigger, ev domain.Run) error {
		s, ok := ecs.Get[*SucceedTimes](t.World, t.Target)
		if !ok {
			return nil
		}
		outcome := domain.Fail
		if s.count < s.Times {
			s.count++
			outcome = domain.Pass
		}
		return TriggerEnd(t.Context(), t.World, t.Target, ev.EndWith(outcome))
	}}
}

// Reset lets the action pass Times more runs.
func (s *SucceedTimes) Reset() { s.count = 0 }

// EndInDuration keeps running until its RunTimer reaches Duration, then
// ends with Outcome.
type EndInDuration struct {
	Duration time.Duration  `mapstructure:"duration"`
	Outcome  domain.Outcome `mapstructure:"outcome"`
}

func (*EndInDuration) ActionKind() ActionKind { return "end_in_duration" }

// Handlers is empty: the Tick system ends the action.
func (*EndInDuration) Handlers() Handlers { return Handlers{} }

func (*EndInDuration) Requires() []any { return []any{&ContinueRun{}} }

func endInDurationSystem(ctx context.Context, w *ecs.World) error {
	for _, e := range ecs.Query[*EndInDuration](w) {
		if !IsRunning(w, e) {
			continue
		}
		d, _ := ecs.Get[*EndInDuration](w, e)
		timer, ok := ecs.Get[*RunTimer](w, e)
		if !ok || timer.LastStarted < d.Duration {
			continue
		}
		outcome := d.Outcome
		if outcome == "" {
			outcome = domain.Pass
		}
		if err := Finish(ctx, w, e, outcome); err != nil {
			return err
		}
	}
	return nil
}

// SetValue writes Value under Key on the blackboard and passes.
type SetValue struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

func (*SetValue) ActionKind() ActionKind { return "set_value" }

func (*SetValue) Handlers() Handlers {
	return Handlers{OnRun: func(t *ecs.Trigger, ev domain.Run) error {
		s, ok := ecs.Get[*SetValue](t.World, t.Target)
		if !ok {
			return nil
		}
		BlackboardOf(t.World).Set(s.Key, s.Value)
		return TriggerEnd(t.Context(), t.World, t.Target, ev.EndWith(domain.Pass))
	}}
}

// ConstantScore answers score requests with Value.
type ConstantScore struct {
	Value domain.Score `mapstructure:"value"`
}

func (*ConstantScore) ActionKind() ActionKind { return "constant_score" }

func (*ConstantScore) Handlers() Handlers {
	return Handlers{OnRequestScore: func(t *ecs.Trigger, ev domain.RequestScore) error {
		s, ok := ecs.Get[*ConstantScore](t.World, t.Target)
		if !ok {
			return nil
		}
		return TriggerScore(t, ev.Parent, t.Target, s.Value)
	}}
}
