/*
Package ports defines the driven ports (interfaces) of the expert system engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various configuration formats and session stores.

# Key Interfaces

  - Loader: produces a domain.Definition from a configuration source (XML, YAML, memory).
  - StateStore: persists session cursors (memory, file, Redis).
  - DistributedLocker: serialises access to one session across processes.
*/
package ports
