package runtime

import (
	"github.com/aretw0/inet/pkg/arena"
	"github.com/aretw0/inet/pkg/domain"
)

// ReducePair applies the local rule selected by the kinds of a and b.
//
// a and b must form an active pair: distinct agents whose principal ports
// reference each other. Otherwise ReducePair panics with a
// *domain.ContractViolation and touches nothing.
func ReducePair(p *arena.Permit, a, b domain.AgentID) domain.Rule {
	checkActivePair(p, a, b)

	rule := domain.RuleFor(p.Kind(a), p.Kind(b))
	switch rule {
	case domain.RuleAnnihilate:
		annihilate(p, a, b)
	case domain.RuleSwap:
		swap(p, a, b)
	case domain.RuleDuplicate:
		duplicate(p, a, b)
	case domain.RuleErase:
		if p.Kind(a) == domain.Eraser {
			erase(p, a, b)
		} else {
			erase(p, b, a)
		}
	case domain.RuleVoid:
	}
	return rule
}

// IsActivePair reports whether a and b currently form a redex.
func IsActivePair(p *arena.Permit, a, b domain.AgentID) bool {
	return a != b &&
		p.Peer(domain.Port(a, domain.Principal)) == domain.Port(b, domain.Principal) &&
		p.Peer(domain.Port(b, domain.Principal)) == domain.Port(a, domain.Principal)
}

func checkActivePair(p *arena.Permit, a, b domain.AgentID) {
	violation := func(reason string) {
		panic(&domain.ContractViolation{Left: a, Right: b, Reason: reason})
	}
	if a == b {
		violation("an agent cannot pair with itself")
	}
	fwd := p.Peer(domain.Port(a, domain.Principal))
	if fwd.Free() {
		violation("left principal port is free")
	}
	if fwd != domain.Port(b, domain.Principal) {
		violation("left principal port references " + fwd.String())
	}
	back := p.Peer(domain.Port(b, domain.Principal))
	if back != domain.Port(a, domain.Principal) {
		violation("right principal port references " + back.String())
	}
}

// splice joins whatever is attached to port x with whatever is attached to
// port y. Peers are read at call time, so a wire that loops back into the
// redex is followed through the ports rewired by earlier splices.
func splice(p *arena.Permit, x, y domain.PortRef) {
	p.Connect(p.Peer(x), p.Peer(y))
}

// detach frees every port slot of an abandoned agent.
func detach(p *arena.Permit, id domain.AgentID) {
	for i := 0; i < domain.Arity; i++ {
		p.Connect(domain.Port(id, i), domain.NoPort)
	}
}

func annihilate(p *arena.Permit, a, b domain.AgentID) {
	splice(p, domain.Port(a, domain.Aux1), domain.Port(b, domain.Aux1))
	splice(p, domain.Port(a, domain.Aux2), domain.Port(b, domain.Aux2))
	detach(p, a)
	detach(p, b)
}

func swap(p *arena.Permit, a, b domain.AgentID) {
	splice(p, domain.Port(a, domain.Aux1), domain.Port(b, domain.Aux2))
	splice(p, domain.Port(a, domain.Aux2), domain.Port(b, domain.Aux1))
	detach(p, a)
	detach(p, b)
}

// duplicate commutes an active pair of different non-eraser kinds. a and b
// become two corners of a 2x2 grid; one clone of each is allocated.
// Copies of b face a's former auxiliary neighbours and copies of a face
// b's.
func duplicate(p *arena.Permit, a, b domain.AgentID) {
	a2 := p.Clone(a)
	b2 := p.Clone(b)

	p.Connect(domain.Port(b, domain.Principal), p.Peer(domain.Port(a, domain.Aux1)))
	p.Connect(domain.Port(b2, domain.Principal), p.Peer(domain.Port(a, domain.Aux2)))
	p.Connect(domain.Port(a, domain.Principal), p.Peer(domain.Port(b, domain.Aux1)))
	p.Connect(domain.Port(a2, domain.Principal), p.Peer(domain.Port(b, domain.Aux2)))

	p.Connect(domain.Port(b, domain.Aux1), domain.Port(a, domain.Aux1))
	p.Connect(domain.Port(b, domain.Aux2), domain.Port(a2, domain.Aux1))
	p.Connect(domain.Port(b2, domain.Aux1), domain.Port(a, domain.Aux2))
	p.Connect(domain.Port(b2, domain.Aux2), domain.Port(a2, domain.Aux2))
}

// erase hands one eraser to each auxiliary neighbour of target: a new one on
// port 1, the original on port 2.
func erase(p *arena.Permit, eraser, target domain.AgentID) {
	extra := p.Clone(eraser)
	p.Connect(domain.Port(extra, domain.Principal), p.Peer(domain.Port(target, domain.Aux1)))
	p.Connect(domain.Port(eraser, domain.Principal), p.Peer(domain.Port(target, domain.Aux2)))
	detach(p, target)
}
