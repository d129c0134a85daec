/*
Package arena stores an interaction net: every agent of a net lives in one
bump-allocated arena and is referenced by a stable integer AgentID, so
cycles and self-loops need no special handling.

All mutation goes through a Permit, the single-writer capability for a Net.
A Permit is obtained with Acquire, passed by pointer through every call that
reads or rewires the net, and given back with Release. While a permit is
live no other permit can be acquired and the read-only inspector blocks, so
the many aliasing PortRefs held by a reduction never observe a concurrent
writer.

Agents are never freed individually. Abandoned agents stay in the arena
until the Net itself is dropped.
*/
package arena
