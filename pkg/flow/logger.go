package flow

import (
	"log/slog"

	"github.com/aretw0/beetflow/pkg/ecs"
)

type loggerResource struct {
	logger *slog.Logger
}

// SetLogger stores the logger used by flow handlers and systems.
func SetLogger(w *ecs.World, l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	w.SetResource(&loggerResource{logger: l})
}

// Logger returns the logger of w, discarding output when none was set.
func Logger(w *ecs.World) *slog.Logger {
	if r, ok := ecs.Resource[*loggerResource](w); ok {
		return r.logger
	}
	return slog.New(slog.DiscardHandler)
}
