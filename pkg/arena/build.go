package arena

import (
	"fmt"

	"github.com/aretw0/inet/pkg/domain"
)

// Build allocates one agent per definition entry, in order, and applies the
// wires. It returns the net, the root agent and the name table.
func Build(def *domain.Definition) (*Net, domain.AgentID, map[string]domain.AgentID, error) {
	n := New()
	p := n.Acquire()
	defer p.Release()

	names := make(map[string]domain.AgentID, len(def.Agents))
	for _, a := range def.Agents {
		if _, dup := names[a.Name]; dup {
			return nil, domain.None, nil, fmt.Errorf("%w: duplicate agent %q", domain.ErrInvalidDefinition, a.Name)
		}
		if !a.Kind.Valid() {
			return nil, domain.None, nil, fmt.Errorf("%w: agent %q has invalid kind", domain.ErrInvalidDefinition, a.Name)
		}
		names[a.Name] = p.Alloc(a.Kind)
	}

	resolve := func(name domain.PortName) (domain.PortRef, error) {
		agent, idx, err := name.Split()
		if err != nil {
			return domain.NoPort, err
		}
		id, ok := names[agent]
		if !ok {
			return domain.NoPort, fmt.Errorf("%w: wire references unknown agent %q", domain.ErrInvalidDefinition, agent)
		}
		return domain.Port(id, idx), nil
	}

	for _, w := range def.Wires {
		from, err := resolve(w.From)
		if err != nil {
			return nil, domain.None, nil, err
		}
		to, err := resolve(w.To)
		if err != nil {
			return nil, domain.None, nil, err
		}
		if from == to {
			return nil, domain.None, nil, fmt.Errorf("%w: wire joins %s to itself", domain.ErrInvalidDefinition, w.From)
		}
		if !p.Peer(from).Free() || !p.Peer(to).Free() {
			return nil, domain.None, nil, fmt.Errorf("%w: port wired twice in %s-%s", domain.ErrInvalidDefinition, w.From, w.To)
		}
		p.Connect(from, to)
	}

	root, ok := names[def.Root]
	if !ok {
		return nil, domain.None, nil, fmt.Errorf("%w: root %q is not an agent", domain.ErrInvalidDefinition, def.Root)
	}
	return n, root, names, nil
}

// FromSnapshot rebuilds a net from a snapshot.
func FromSnapshot(s *domain.Snapshot) (*Net, error) {
	n := &Net{agents: make([]slot, len(s.Agents))}
	for i, rec := range s.Agents {
		if !rec.Kind.Valid() {
			return nil, fmt.Errorf("snapshot %s: agent %d has invalid kind", s.ID, i)
		}
		for _, port := range rec.Ports {
			if port.Free() {
				continue
			}
			if int(port.Agent) >= len(s.Agents) || port.Index < 0 || port.Index >= domain.Arity {
				return nil, fmt.Errorf("snapshot %s: agent %d references %s outside the arena", s.ID, i, port)
			}
		}
		n.agents[i] = slot{kind: rec.Kind, ports: rec.Ports}
	}
	if len(s.Agents) > 0 && !n.has(s.Root) {
		return nil, fmt.Errorf("snapshot %s: root %d outside the arena", s.ID, s.Root)
	}
	return n, nil
}
