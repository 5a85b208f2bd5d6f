package ecs

import (
	"errors"
	"reflect"
)

// Command is a deferred mutation of the world.
type Command func(w *World) error

// Commands queues structural changes that must not happen in the middle of
// a dispatch. The queue is flushed after every system and at the start of
// every update.
type Commands struct {
	queue []Command
}

// Push queues cmd.
func (c *Commands) Push(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Despawn queues a recursive despawn of e.
func (c *Commands) Despawn(e Entity) {
	c.Push(func(w *World) error {
		w.Despawn(e)
		return nil
	})
}

// Insert queues the insertion of components on e.
func (c *Commands) Insert(e Entity, components ...any) {
	c.Push(func(w *World) error {
		w.Insert(e, components...)
		return nil
	})
}

// RemoveType queues the removal of the component of type t from e.
func (c *Commands) RemoveType(e Entity, t reflect.Type) {
	c.Push(func(w *World) error {
		w.RemoveType(e, t)
		return nil
	})
}

// FlushCommands applies queued commands in order, including commands queued
// while flushing. Every command runs; their errors are joined.
func (w *World) FlushCommands() error {
	var errs []error
	for len(w.commands.queue) > 0 {
		batch := w.commands.queue
		w.commands.queue = nil
		for _, cmd := range batch {
			if err := cmd(w); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
