package beetflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/beetflow/internal/logging"
	"github.com/aretw0/beetflow/internal/runtime"
	"github.com/aretw0/beetflow/pkg/adapters/file"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/dsl"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/observability"
	"github.com/aretw0/beetflow/pkg/ports"
	"github.com/aretw0/beetflow/pkg/registry"
)

type (
	// Entity identifies a spawned node.
	Entity = ecs.Entity
	// Outcome is the result of an ended node.
	Outcome = domain.Outcome
)

const (
	Pass = domain.Pass
	Fail = domain.Fail
)

// Engine is the high-level entry point for the beetflow library.
// It wraps the internal runtime and provides a simplified API for consumers.
// An Engine is not safe for concurrent use; see pkg/session.
type Engine struct {
	runtime  *runtime.Engine
	recorder *observability.Recorder
	logger   *slog.Logger
	Name     string
}

type config struct {
	dir      string
	loader   ports.TreeLoader
	store    ports.TraceStore
	hooks    []domain.LifecycleHooks
	logger   *slog.Logger
	registry *registry.Registry
	clock    func() time.Time
	plugins  []ecs.Plugin
	name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*config)

// WithLifecycleHooks registers observability hooks. It can be given
// several times; hooks fire in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithLoader injects a custom TreeLoader.
func WithLoader(l ports.TreeLoader) Option {
	return func(c *config) {
		c.loader = l
	}
}

// WithDir loads trees from definition files in dir.
func WithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

// WithTraceStore records every run and saves its trace to store.
func WithTraceStore(store ports.TraceStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRegistry sets the registry used to build actions from definitions.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithClock sets the clock stamping trace events.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithPlugins adds plugins, for example systems driving custom leaves.
func WithPlugins(plugins ...ecs.Plugin) Option {
	return func(c *config) {
		c.plugins = append(c.plugins, plugins...)
	}
}

// WithName labels the engine in logs.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.loader == nil && cfg.dir != "" {
		absPath, err := filepath.Abs(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("tree directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("tree directory: %s is not a directory", absPath)
		}
		cfg.loader = file.NewLoader(absPath)
		if cfg.name == "" {
			cfg.name = filepath.Base(absPath)
		}
	}

	// Ensure logger is initialized so the runtime keeps a usable default.
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("engine", cfg.name)
	}

	eng := &Engine{logger: cfg.logger, Name: cfg.name}
	hooks := cfg.hooks
	if cfg.store != nil {
		eng.recorder = observability.NewRecorder(
			observability.WithStore(cfg.store),
			observability.WithLogger(cfg.logger),
		)
		hooks = append(hooks, eng.recorder.Hooks())
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(cfg.logger),
		runtime.WithLifecycleHooks(domain.MergeHooks(hooks...)),
		runtime.WithRegistry(cfg.registry),
		runtime.WithLoader(cfg.loader),
		runtime.WithClock(cfg.clock),
		runtime.WithPlugins(cfg.plugins...),
	)
	return eng, nil
}

// Spawn spawns a tree described in Go.
func (e *Engine) Spawn(nb *dsl.NodeBuilder) (Entity, error) {
	return e.runtime.Spawn(nb)
}

// Load spawns the tree name read from the configured loader.
func (e *Engine) Load(ctx context.Context, name string) (Entity, error) {
	return e.runtime.Load(ctx, name)
}

// LoadBytes parses, validates and spawns a raw YAML or JSON definition.
func (e *Engine) LoadBytes(data []byte) (Entity, error) {
	def, err := e.runtime.Parse(data)
	if err != nil {
		return ecs.Invalid, err
	}
	return e.runtime.SpawnDef(def)
}

// Validate parses and validates a raw definition without spawning it.
func (e *Engine) Validate(data []byte) (*domain.TreeDef, error) {
	return e.runtime.Parse(data)
}

// Run starts root. Handlers reached synchronously run before Run returns.
func (e *Engine) Run(ctx context.Context, root Entity, payload any) error {
	e.logger.Debug("run", "root", root)
	return e.runtime.Run(ctx, root, payload)
}

// Tick advances the world by delta.
func (e *Engine) Tick(ctx context.Context, delta time.Duration) error {
	return e.runtime.Tick(ctx, delta)
}

// Interrupt stops root and its running descendants.
func (e *Engine) Interrupt(ctx context.Context, root Entity) error {
	return e.runtime.Interrupt(ctx, root)
}

// Outcome returns how root last ended.
func (e *Engine) Outcome(root Entity) (Outcome, bool) {
	return e.runtime.Outcome(root)
}

// Running reports whether root is running.
func (e *Engine) Running(root Entity) bool {
	return e.runtime.Running(root)
}

// Inspect returns a snapshot of the tree under root.
func (e *Engine) Inspect(root Entity) []domain.NodeInfo {
	return e.runtime.Inspect(root)
}

// Trees lists the definitions available from the loader.
func (e *Engine) Trees() ([]string, error) {
	l := e.runtime.Loader()
	if l == nil {
		return nil, fmt.Errorf("no tree loader configured")
	}
	return l.ListTrees()
}

// Traces returns the traces recorded so far, when a trace store is set.
func (e *Engine) Traces() []*domain.Trace {
	if e.recorder == nil {
		return nil
	}
	return e.recorder.Traces()
}

// FlushTraces closes and saves traces of runs that have not ended.
func (e *Engine) FlushTraces(ctx context.Context) []*domain.Trace {
	if e.recorder == nil {
		return nil
	}
	return e.recorder.Flush(ctx)
}

// World exposes the underlying world for custom systems and observers.
func (e *Engine) World() *ecs.World {
	return e.runtime.World()
}

// Elapsed returns the simulated time and the number of ticks so far.
func (e *Engine) Elapsed() (time.Duration, uint64) {
	return e.runtime.Elapsed()
}
