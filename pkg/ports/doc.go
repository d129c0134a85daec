/*
Package ports defines the driven and driving ports of the inet engine.

The reduction core (pkg/arena and internal/runtime) knows nothing about where
nets come from or where they go. These interfaces let loaders, stores and
transports be swapped without touching it.

# Key Interfaces

  - NetLoader: resolves a net definition by name (memory, file, Loam library).
  - NetStore: persists arena snapshots keyed by net id.
  - DistributedLocker: serialises access to a stored net across processes.
  - NetEngine: the operations transports (HTTP, MCP) drive.

RunNetStoreContract and tests.NetLoaderContractTest are shared suites every
adapter runs in its own tests.
*/
package ports
