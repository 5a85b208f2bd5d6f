package domain

import (
	"errors"
	"fmt"
)

// ErrNotMyChild is returned when a composite receives a child result from an
// entity that is not one of its children.
var ErrNotMyChild = errors.New("entity is not a child of this action")

// ErrNoParent is returned by actions that need a parent and have none.
var ErrNoParent = errors.New("action has no parent")

// ErrNoChildren is returned by actions that need a child and have none.
var ErrNoChildren = errors.New("action has no children")

// ErrUnknownState is returned when a RunNext target names no registered state.
var ErrUnknownState = errors.New("unknown state")

// ErrEntityNotFound is returned when an event targets a despawned entity.
var ErrEntityNotFound = errors.New("entity not found")

// ErrUnknownAction is returned when a definition names an unregistered action kind.
var ErrUnknownAction = errors.New("unknown action")

// ErrTraceNotFound is returned when a trace ID cannot be found in the store.
var ErrTraceNotFound = errors.New("trace not found")

// ErrTreeNotFound is returned when a loader has no definition with the given name.
var ErrTreeNotFound = errors.New("tree not found")

// NotMyChildError carries the entities involved in an ErrNotMyChild failure.
type NotMyChildError struct {
	Parent Entity
	Child  Entity
}

func (e *NotMyChildError) Error() string {
	return fmt.Sprintf("%s is not a child of %s", e.Child, e.Parent)
}

func (e *NotMyChildError) Unwrap() error {
	return ErrNotMyChild
}
