/*
Package dsl provides a fluent builder for spawning beetflow trees.

It lets developers describe trees in Go instead of YAML or JSON files, which
is handy for tests, for trees built at runtime and for leaves written in Go
that a definition file cannot express.

Example usage:

	patrol := dsl.Node("patrol").Sequence().Child(
		dsl.Node("check").Condition("battery > 20"),
		dsl.Node("walk").EndInDuration(2*time.Second, domain.Pass).NoInterrupt(),
		dsl.Node("again").LoopTimes(3),
	)

	root, err := patrol.Spawn(world)

Several top-level trees, such as the states of a state machine, are
collected with a Builder:

	b := dsl.New()
	b.Add("idle").Succeed().RunNext("walk")
	b.Add("walk").EndInDuration(time.Second, domain.Pass).RunNext("idle")
	roots, err := b.Spawn(world)
*/
package dsl
