package registry

import (
	"fmt"
	"sort"

	"github.com/aretw0/beetflow/pkg/flow"
)

// RegisterBuiltins registers the composites and leaves shipped with flow.
func RegisterBuiltins(r *Registry) {
	r.Register("sequence", Decode[flow.Sequence]())
	r.Register("fallback", Decode[flow.Fallback]())
	r.Register("infallible_sequence", Decode[flow.InfallibleSequence]())
	r.Register("parallel", Decode[flow.Parallel]())
	r.Register("score_flow", Decode[flow.ScoreFlow]())
	r.Register("repeat", Decode[flow.RepeatFlow]())
	r.Register("loop_times", Decode[flow.LoopTimes]())
	r.Register("run_next", Decode[flow.RunNext]())
	r.Register("end_with", endWith)
	r.Register("succeed_times", Decode[flow.SucceedTimes]())
	r.Register("end_in_duration", Decode[flow.EndInDuration]())
	r.Register("condition", condition)
	r.Register("constant_score", Decode[flow.ConstantScore]())
	r.Register("expr_score", Decode[flow.ExprScore]())
	r.Register("set_value", Decode[flow.SetValue]())
}

func endWith(params map[string]any) (flow.Action, error) {
	e := flow.Succeed()
	if err := DecodeParams(params, e); err != nil {
		return nil, err
	}
	return e, nil
}

func condition(params map[string]any) (flow.Action, error) {
	var c flow.Condition
	if err := DecodeParams(params, &c); err != nil {
		return nil, err
	}
	if c.Expr == "" {
		return nil, fmt.Errorf("condition requires expr")
	}
	return flow.NewCondition(c.Expr)
}

var markers = map[string]func() any{
	"no_interrupt":          func() any { return &flow.NoInterrupt{} },
	"prevent_propagate_end": func() any { return &flow.PreventPropagateEnd{} },
	"continue_run":          func() any { return &flow.ContinueRun{} },
	"run_on_spawn":          func() any { return &flow.RunOnSpawn{} },
	"despawn_on_end":        func() any { return &flow.DespawnOnEnd{} },
}

// Marker returns a fresh marker component for name.
func Marker(name string) (any, bool) {
	fn, ok := markers[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Markers returns the known marker names, sorted.
func Markers() []string {
	names := make([]string, 0, len(markers))
	for name := range markers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
