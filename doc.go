/*
Package beetflow is an event-driven behavior tree runtime.

Trees are entities in a world. Control flows down as Run events and results
flow back up as End events, one hop at a time, with composites such as
Sequence, Fallback, Parallel and ScoreFlow reacting to their children's
results. Nothing is polled: a tick only advances timers and the leaves that
wait on time or on external work.

# Usage

Trees are written in Go with the dsl package, or in YAML/JSON files loaded
through a ports.TreeLoader:

	eng, err := beetflow.New(beetflow.WithDir("./trees"))
	if err != nil {
		log.Fatal(err)
	}

	root, err := eng.Load(ctx, "patrol")
	if err != nil {
		log.Fatal(err)
	}

	outcome, err := beetflow.NewRunner().Run(ctx, eng, root, nil)

A definition file describes one tree:

	name: patrol
	action: sequence
	children:
	  - action: condition
	    params: {expr: "battery > 20"}
	  - action: end_in_duration
	    params: {duration: 2s}
	    markers: [no_interrupt]
	  - action: loop_times
	    params: {max_times: 3}

Runs can be traced with WithTraceStore and observed with
WithLifecycleHooks, for example through observability.Metrics.
*/
package beetflow
