package flow

import (
	"maps"
	"sync"

	"github.com/aretw0/beetflow/pkg/ecs"
)

// Blackboard is the shared key/value memory read by Condition and ExprScore
// and written by SetValue. Hosts may write it from other goroutines.
type Blackboard struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{values: make(map[string]any)}
}

// BlackboardOf returns the blackboard of w, creating it if needed.
func BlackboardOf(w *ecs.World) *Blackboard {
	return ecs.ResourceOrInit(w, NewBlackboard)
}

func (b *Blackboard) Get(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok
}

func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
}

func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
}

// Snapshot returns a copy of every value.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.values)
}
