package middleware

import "github.com/aretw0/beetflow/pkg/ports"

// Middleware allows wrapping a TraceStore to add behavior.
type Middleware func(ports.TraceStore) ports.TraceStore

// Chain wraps store with mws. The first middleware sees a trace first on
// Save and last on Load.
func Chain(store ports.TraceStore, mws ...Middleware) ports.TraceStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
