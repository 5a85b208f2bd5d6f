package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/pkg/adapters/file"
	"github.com/aretw0/beetflow/pkg/adapters/redis"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/persistence/middleware"
	"github.com/aretw0/beetflow/pkg/ports"
	"github.com/aretw0/beetflow/pkg/session"
)

// RunOptions configures Run.
type RunOptions struct {
	Dir         string
	Tools       string
	Tick        time.Duration
	Delta       time.Duration
	MaxTicks    int
	Trace       bool
	TraceDir    string
	RedisAddr   string
	MetricsAddr string
	Logger      *slog.Logger
	Out         io.Writer

	// TraceKey is a hex AES-256 key sealing stored traces.
	TraceKey string
	// Redact lists patterns of payload keys masked in stored traces.
	Redact []string
	// Set seeds the blackboard and is passed as the run payload.
	Set map[string]string
	// Exclusive holds a Redis lock on the tree name for the whole run.
	Exclusive bool
}

// Run spawns the tree arg refers to and runs it until it ends.
func Run(ctx context.Context, arg string, opts RunOptions) (beetflow.Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(false)
	}
	engineOpts, err := EngineOptions(opts.Dir, opts.Tools)
	if err != nil {
		return "", err
	}
	engineOpts = append(engineOpts, beetflow.WithLogger(logger))

	if opts.Trace {
		engineOpts = append(engineOpts, beetflow.WithLifecycleHooks(NewTracePrinter(opts.Out).Hooks()))
	}

	be, err := openBackends(opts)
	if err != nil {
		return "", err
	}
	defer be.close()
	if be.store != nil {
		engineOpts = append(engineOpts, beetflow.WithTraceStore(be.store))
	}

	payload, err := ParseValues(opts.Set)
	if err != nil {
		return "", err
	}
	var runPayload any
	if len(payload) > 0 {
		runPayload = payload
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if opts.Exclusive {
		if be.locker == nil {
			return "", fmt.Errorf("--exclusive needs --redis")
		}
		sessionOpts = append(sessionOpts, session.WithLocker(be.locker))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var serveErr chan error
	if opts.MetricsAddr != "" {
		reg, m, err := NewMetricsRegistry()
		if err != nil {
			return "", fmt.Errorf("metrics: %w", err)
		}
		engineOpts = append(engineOpts, beetflow.WithLifecycleHooks(m.Hooks()))
		serveErr = make(chan error, 1)
		go func() {
			serveErr <- ServeMetrics(ctx, opts.MetricsAddr, NewMetricsRouter(reg), logger)
		}()
	}

	runs := session.NewManager(func(ctx context.Context, _ string) (*loaded, error) {
		eng, root, err := Open(ctx, arg, opts.Dir, engineOpts...)
		if err != nil {
			return nil, err
		}
		bb := flow.BlackboardOf(eng.World())
		for k, v := range payload {
			bb.Set(k, v)
		}
		return &loaded{eng: eng, root: root}, nil
	}, sessionOpts...)

	var outcome beetflow.Outcome
	err = runs.Do(ctx, arg, func(ctx context.Context, l *loaded) error {
		runner := &beetflow.Runner{Interval: opts.Tick, Delta: opts.Delta, MaxTicks: opts.MaxTicks}
		var runErr error
		outcome, runErr = runner.Run(ctx, l.eng, l.root, runPayload)
		if runErr != nil {
			l.eng.FlushTraces(context.Background())
		}
		for _, t := range l.eng.Traces() {
			logger.Info("trace recorded", "trace_id", t.ID, "root", t.RootName, "outcome", t.Outcome, "duration", t.Duration())
		}
		return runErr
	})

	if serveErr != nil {
		cancel()
		if serr := <-serveErr; serr != nil {
			err = errors.Join(err, fmt.Errorf("metrics server: %w", serr))
		}
	}
	return outcome, err
}

type loaded struct {
	eng  *beetflow.Engine
	root beetflow.Entity
}

type backends struct {
	store  ports.TraceStore
	locker ports.DistributedLocker
	close  func()
}

func openBackends(opts RunOptions) (*backends, error) {
	be := &backends{close: func() {}}
	switch {
	case opts.RedisAddr != "" && opts.TraceDir != "":
		return nil, fmt.Errorf("--redis and --trace-dir cannot be used together")
	case opts.RedisAddr != "":
		s := redis.New(opts.RedisAddr, "", 0)
		be.store, be.locker = s, s.Locker()
		be.close = func() { _ = s.Close() }
	case opts.TraceDir != "":
		be.store = file.NewStore(opts.TraceDir)
	default:
		return be, nil
	}

	var mws []middleware.Middleware
	if len(opts.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(opts.Redact)
		if err != nil {
			be.close()
			return nil, fmt.Errorf("redact: %w", err)
		}
		mws = append(mws, mw)
	}
	if opts.TraceKey != "" {
		key, err := hex.DecodeString(opts.TraceKey)
		if err == nil {
			var mw middleware.Middleware
			if mw, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}); err == nil {
				mws = append(mws, mw)
			}
		}
		if err != nil {
			be.close()
			return nil, fmt.Errorf("trace key: %w", err)
		}
	}
	be.store = middleware.Chain(be.store, mws...)
	return be, nil
}

// ParseValues decodes each value as YAML, so numbers and booleans keep
// their type.
func ParseValues(raw map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for k, s := range raw {
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("value of %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
