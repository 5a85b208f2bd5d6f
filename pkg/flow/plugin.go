package flow

import (
	"log/slog"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// Plugin installs the flow resources and systems on an app.
type Plugin struct {
	Logger *slog.Logger
}

// Build implements ecs.Plugin.
func (p Plugin) Build(app *ecs.App) {
	w := app.World()
	SetLogger(w, p.Logger)
	actionObservers(w)
	ecs.ResourceOrInit(w, NewBlackboard)

	timers := &runTimerSystem{}
	app.AddSystem(ecs.PreTick, "run_timer", timers.run)
	app.AddSystem(ecs.PreTick, "run_on_spawn", runOnSpawnSystem)
	app.AddSystem(ecs.Tick, "end_in_duration", endInDurationSystem)

	w.ObserveGlobal(domain.KindEnd, despawnOnEnd)
}

func despawnOnEnd(t *ecs.Trigger) error {
	if ecs.Has[*DespawnOnEnd](t.World, t.Target) {
		t.World.Commands().Despawn(t.Target)
	}
	return nil
}
