/*
Package ports defines the driven ports (interfaces) for the beetflow engine.

These interfaces decouple the runtime from external implementations, allowing
the engine to read tree definitions from and persist run traces to various
backends.

# Key Interfaces

  - TreeLoader: Responsible for loading raw tree definitions (e.g., from a directory or memory).
  - TraceStore: Responsible for persisting and loading run traces.
  - DistributedLocker: Provides distributed locking for engines shared across replicas.
*/
package ports
