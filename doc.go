/*
Package inet is a reduction engine for interaction nets built from three agent
kinds: Constructor, Duplicator and Eraser.

Every agent has three ports. Port 0 is principal, ports 1 and 2 are
auxiliary. Two agents whose principal ports face each other form an active
pair (a redex), and five local rules rewrite such pairs in place:

  - annihilate: two constructors vanish and their auxiliary neighbours are joined crosswise.
  - swap: two duplicators vanish and their auxiliary neighbours are joined straight.
  - duplicate: a constructor meeting a duplicator is copied through it.
  - erase: an eraser consumes a constructor or duplicator and spreads to its neighbours.
  - void: two erasers meet; nothing changes.

# Usage

The Engine stores nets by id. Load a definition, then reduce it one sweep at
a time or run it to normal form:

	eng, err := inet.New("")
	if err != nil {
		log.Fatal(err)
	}

	b := dsl.New("pair")
	b.Con("root").Aux1("a", 1).Aux2("b", 1)
	b.Con("a").Aux2("b", 2)
	b.Con("b")
	def, err := b.Redex("a", "b").Definition()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := eng.Load(ctx, "pair", def); err != nil {
		log.Fatal(err)
	}
	report, err := eng.Normalize(ctx, "pair")

A sweep computes the agents reachable from the root and the redexes among
them once, then reduces each redex that is still active when its turn comes.
Redexes created during a sweep wait for the next one. Normalize repeats
sweeps until one performs no rewrite, bounded by WithMaxPasses.

# Adapters

Definitions come from a NetLoader: in-process (pkg/adapters/memory), YAML or
JSON files (pkg/adapters/file) or a Loam document library
(pkg/adapters/loam, used when New is given a path). Nets are kept in a
NetStore: memory, file, Redis, bbolt or Badger. The HTTP and MCP adapters
expose the Engine to other processes.
*/
package inet
