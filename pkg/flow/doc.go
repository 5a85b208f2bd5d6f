/*
Package flow implements the event-driven control flow on top of package ecs.

Actions are components with handlers for the Run, End and ChildEnd events.
TriggerRun starts an action: running descendants are interrupted, the action
is marked Running and its Run handlers fire. TriggerEnd finishes it: Running
is removed, End handlers fire and the result travels one hop up as a
ChildEnd, where composites decide what happens next.

	app := ecs.NewApp().AddPlugins(flow.Plugin{})
	w := app.World()
	root := w.Spawn(ecs.Name("root"))
	flow.AddAction(w, root, &flow.Sequence{})
	...
	err := flow.Start(ctx, w, root, nil)

Composites: Sequence, Fallback, InfallibleSequence, Parallel, ScoreFlow,
RepeatFlow, LoopTimes and RunNext. Leaves: EndWith, SucceedTimes,
EndInDuration, Condition, SetValue, ConstantScore and ExprScore.
*/
package flow
