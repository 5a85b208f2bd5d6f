package ports

// TreeLoader defines how the engine retrieves tree definitions.
// This allows the storage layer (filesystem, memory) to be decoupled.
type TreeLoader interface {
	// GetTree retrieves the raw definition of a tree by name.
	// It returns the raw bytes (which the compiler will parse) or an error
	// wrapping domain.ErrTreeNotFound.
	GetTree(name string) ([]byte, error)

	// ListTrees returns the names of all available trees, sorted.
	// This is used for introspection tools (e.g. 'beetflow describe').
	ListTrees() ([]string, error)
}
