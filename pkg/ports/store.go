package ports

import (
	"context"

	"github.com/aretw0/beetflow/pkg/domain"
)

// TraceStore defines the interface for persisting run traces.
type TraceStore interface {
	// Save persists a trace under trace.ID, replacing an existing one.
	Save(ctx context.Context, trace *domain.Trace) error

	// Load retrieves the trace with the given ID.
	// Returns domain.ErrTraceNotFound if the trace does not exist.
	Load(ctx context.Context, id string) (*domain.Trace, error)

	// Delete removes the trace with the given ID. Deleting a missing trace
	// is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored trace.
	List(ctx context.Context) ([]string, error)
}
