package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/beetflow/internal/compiler"
	"github.com/aretw0/beetflow/internal/logging"
	"github.com/aretw0/beetflow/internal/validator"
	"github.com/aretw0/beetflow/pkg/adapters/behaviortree"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/dsl"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/ports"
	"github.com/aretw0/beetflow/pkg/registry"
)

// Engine owns one world and drives the trees spawned into it.
// It is not safe for concurrent use.
type Engine struct {
	app      *ecs.App
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	registry *registry.Registry
	loader   ports.TreeLoader
	parser   *compiler.Parser
	clock    func() time.Time
	plugins  []ecs.Plugin

	outcomes map[ecs.Entity]domain.Outcome
	origins  map[ecs.Entity]ecs.Entity
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. Flow handlers log through it too.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRegistry sets the registry used to build actions from definitions.
func WithRegistry(reg *registry.Registry) EngineOption {
	return func(e *Engine) {
		if reg != nil {
			e.registry = reg
		}
	}
}

// WithLoader sets where Load reads tree definitions from.
func WithLoader(loader ports.TreeLoader) EngineOption {
	return func(e *Engine) {
		e.loader = loader
	}
}

// WithClock sets the clock stamping trace events.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithPlugins adds plugins built after the flow plugin, typically to
// register systems for custom tick-driven leaves.
func WithPlugins(plugins ...ecs.Plugin) EngineOption {
	return func(e *Engine) {
		e.plugins = append(e.plugins, plugins...)
	}
}

// NewEngine creates an engine with a fresh world.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		registry: registry.Default(),
		parser:   compiler.NewParser(),
		clock:    time.Now,
		outcomes: make(map[ecs.Entity]domain.Outcome),
		origins:  make(map[ecs.Entity]ecs.Entity),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.app = ecs.NewApp().AddPlugins(flow.Plugin{Logger: e.logger}, behaviortree.Plugin{})
	e.app.AddPlugins(e.plugins...)
	e.bindHooks()
	return e
}

// App returns the app driving the world.
func (e *Engine) App() *ecs.App { return e.app }

// World returns the engine world.
func (e *Engine) World() *ecs.World { return e.app.World() }

// Registry returns the action registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Loader returns the configured tree loader, which may be nil.
func (e *Engine) Loader() ports.TreeLoader { return e.loader }

// Spawn spawns a tree built in Go.
func (e *Engine) Spawn(nb *dsl.NodeBuilder) (ecs.Entity, error) {
	root, err := nb.Spawn(e.World())
	if err != nil {
		return ecs.Invalid, fmt.Errorf("failed to spawn %s: %w", nb.Name(), err)
	}
	e.logger.Debug("tree spawned", "root", root, "name", nb.Name())
	return root, nil
}

// Parse parses and validates a raw definition.
func (e *Engine) Parse(data []byte) (*domain.TreeDef, error) {
	def, err := e.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateTree(def, e.registry); err != nil {
		return nil, fmt.Errorf("invalid tree %s: %w", def.Label(), err)
	}
	return def, nil
}

// SpawnDef spawns a parsed definition.
func (e *Engine) SpawnDef(def *domain.TreeDef) (ecs.Entity, error) {
	nb, err := dsl.FromDef(def, e.registry)
	if err != nil {
		return ecs.Invalid, err
	}
	return e.Spawn(nb)
}

// Load reads the tree name from the loader, validates it and spawns it.
func (e *Engine) Load(ctx context.Context, name string) (ecs.Entity, error) {
	if err := ctx.Err(); err != nil {
		return ecs.Invalid, err
	}
	if e.loader == nil {
		return ecs.Invalid, fmt.Errorf("load %s: no tree loader configured", name)
	}
	data, err := e.loader.GetTree(name)
	if err != nil {
		return ecs.Invalid, fmt.Errorf("load %s: %w", name, err)
	}
	def, err := e.Parse(data)
	if err != nil {
		return ecs.Invalid, fmt.Errorf("load %s: %w", name, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	return e.SpawnDef(def)
}

// Run starts root as the origin of a new run, forgetting its previous
// outcome.
func (e *Engine) Run(ctx context.Context, root ecs.Entity, payload any) error {
	delete(e.outcomes, root)
	return flow.Start(ctx, e.World(), root, payload)
}

// Tick advances the world by delta.
func (e *Engine) Tick(ctx context.Context, delta time.Duration) error {
	return e.app.Update(ctx, delta)
}

// Interrupt stops root and its running descendants.
func (e *Engine) Interrupt(ctx context.Context, root ecs.Entity) error {
	return flow.Interrupt(ctx, e.World(), root)
}

// Outcome returns the outcome of the last End of e.
func (e *Engine) Outcome(ent ecs.Entity) (domain.Outcome, bool) {
	o, ok := e.outcomes[ent]
	return o, ok
}

// Running reports whether e is running.
func (e *Engine) Running(ent ecs.Entity) bool {
	return flow.IsRunning(e.World(), ent)
}

// Elapsed returns the simulated time and tick count.
func (e *Engine) Elapsed() (time.Duration, uint64) {
	t := ecs.CurrentTime(e.World())
	return t.Elapsed, t.Tick
}
