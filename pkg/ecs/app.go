package ecs

import (
	"context"
	"fmt"
	"time"
)

// Phase orders systems within one update.
type Phase int

const (
	PreTick Phase = iota
	Tick
	PostTick
)

var phaseNames = [...]string{"pre_tick", "tick", "post_tick"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// SystemFunc runs once per update in its phase.
type SystemFunc func(ctx context.Context, w *World) error

type system struct {
	name string
	run  SystemFunc
}

// Time is the world resource describing the current update.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Tick    uint64
}

// Plugin bundles resources, observers and systems.
type Plugin interface {
	Build(app *App)
}

// App drives a World through phased updates.
type App struct {
	world   *World
	systems [len(phaseNames)][]system
}

// NewApp returns an app over a fresh world.
func NewApp() *App {
	w := NewWorld()
	w.SetResource(&Time{})
	return &App{world: w}
}

// World returns the world the app drives.
func (a *App) World() *World {
	return a.world
}

// AddPlugins builds each plugin in order.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		p.Build(a)
	}
	return a
}

// AddSystem appends a system to phase. Systems of one phase run in the order
// they were added.
func (a *App) AddSystem(phase Phase, name string, fn SystemFunc) *App {
	a.systems[phase] = append(a.systems[phase], system{name: name, run: fn})
	return a
}

// Systems returns the names of the systems registered in phase.
func (a *App) Systems(phase Phase) []string {
	names := make([]string, 0, len(a.systems[phase]))
	for _, s := range a.systems[phase] {
		names = append(names, s.name)
	}
	return names
}

// Update advances the world by delta: it flushes pending commands, runs every
// phase, flushing commands after each system, and rotates change trackers.
// The first error stops the update.
func (a *App) Update(ctx context.Context, delta time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := a.world

	t := ResourceOrInit(w, func() *Time { return &Time{} })
	t.Delta = delta
	t.Elapsed += delta
	t.Tick++

	if err := w.FlushCommands(); err != nil {
		return fmt.Errorf("flush commands: %w", err)
	}
	for phase := range a.systems {
		for _, s := range a.systems[phase] {
			if err := s.run(ctx, w); err != nil {
				return fmt.Errorf("%s system %q: %w", Phase(phase), s.name, err)
			}
			if err := w.FlushCommands(); err != nil {
				return fmt.Errorf("flush commands after %q: %w", s.name, err)
			}
		}
	}
	w.ClearTrackers()
	return nil
}

// CurrentTime returns the Time resource of w.
func CurrentTime(w *World) Time {
	if t, ok := Resource[*Time](w); ok {
		return *t
	}
	return Time{}
}
