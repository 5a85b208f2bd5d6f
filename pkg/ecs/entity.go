package ecs

import (
	"fmt"
	"math"
)

// Entity identifies a node of the world. Zero is never allocated.
type Entity uint64

const (
	// Invalid is the zero entity.
	Invalid Entity = 0
	// Placeholder stands for the entity an event is being dispatched on.
	// It is resolved by whoever triggers the event.
	Placeholder Entity = math.MaxUint64
)

// IsValid reports whether e can refer to a spawned entity.
func (e Entity) IsValid() bool {
	return e != Invalid && e != Placeholder
}

// Or returns e, or fallback when e is Invalid or Placeholder.
func (e Entity) Or(fallback Entity) Entity {
	if !e.IsValid() {
		return fallback
	}
	return e
}

func (e Entity) String() string {
	switch e {
	case Invalid:
		return "entity(invalid)"
	case Placeholder:
		return "entity(placeholder)"
	}
	return fmt.Sprintf("entity(%d)", uint64(e))
}

// Name is a human readable label attached to an entity.
type Name string
