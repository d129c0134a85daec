/*
Package domain contains the core domain models of the inet reduction engine.

It defines the vocabulary shared by the arena, the rule engine, the driver and
every adapter: agent kinds, port references, reduction rules, pass reports,
net definitions (the loader exchange format) and snapshots (the persisted
form). The package is kept pure and free of I/O.

# Key Entities

  - Kind: Constructor, Duplicator or Eraser.
  - PortRef: a port identified by (agent, index); index 0 is principal.
  - Definition: a named net as produced by a program loader.
  - Snapshot: a complete arena, as saved by a NetStore.
  - Rule / PassReport / Report: what a reduction did.
*/
package domain
