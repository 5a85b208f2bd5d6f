// Package ecs is the entity graph the control-flow runtime runs on.
//
// A World holds entities, an ordered parent/child hierarchy, typed components,
// resources and an observer table. Events are dispatched synchronously with
// World.Trigger to global observers and to observers watching the target
// entity. An App groups systems into phases and advances the world one tick
// at a time.
//
// A World is single-threaded: it must not be used from several goroutines at
// once without external synchronisation.
package ecs
