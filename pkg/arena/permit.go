package arena

import (
	"fmt"

	"github.com/aretw0/inet/pkg/domain"
)

// noCopy lets go vet's copylocks check flag copies of a Permit.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Permit is the exclusive right to read and rewire a Net. Only one permit
// per net is live at a time. Pass it by pointer; never copy it.
type Permit struct {
	noCopy noCopy
	net    *Net
	live   bool
}

// Acquire blocks until the net has no live permit and returns a new one.
func (n *Net) Acquire() *Permit {
	n.mu.Lock()
	p := &Permit{net: n, live: true}
	n.holder = p
	return p
}

// TryAcquire is Acquire without blocking.
func (n *Net) TryAcquire() (*Permit, bool) {
	if !n.mu.TryLock() {
		return nil, false
	}
	p := &Permit{net: n, live: true}
	n.holder = p
	return p, true
}

// Release gives the permit back. The permit is unusable afterwards.
func (p *Permit) Release() {
	p.check()
	p.live = false
	p.net.holder = nil
	p.net.mu.Unlock()
}

// Net returns the net this permit grants access to.
func (p *Permit) Net() *Net {
	return p.net
}

func (p *Permit) check() {
	if p == nil || !p.live || p.net.holder != p {
		panic(domain.ErrPermitInvalid)
	}
}

// Alloc appends a new agent with all ports free.
func (p *Permit) Alloc(kind domain.Kind) domain.AgentID {
	p.check()
	return p.net.alloc(kind)
}

// Clone allocates a new agent of the same kind as id. Ports are not copied.
func (p *Permit) Clone(id domain.AgentID) domain.AgentID {
	return p.Alloc(p.Kind(id))
}

// Connect makes a and b reference each other, overwriting whatever either
// referenced before. The previous far ends are not updated. A NoPort side is
// skipped, so Connect(a, NoPort) frees a.
func (p *Permit) Connect(a, b domain.PortRef) {
	p.check()
	if !a.Free() {
		*p.net.at(a) = b
	}
	if !b.Free() {
		*p.net.at(b) = a
	}
}

// Peer returns the port connected to port, or NoPort.
func (p *Permit) Peer(port domain.PortRef) domain.PortRef {
	p.check()
	if port.Free() {
		return domain.NoPort
	}
	return *p.net.at(port)
}

// Kind returns the kind of an agent.
func (p *Permit) Kind(id domain.AgentID) domain.Kind {
	p.check()
	if !p.net.has(id) {
		panic(fmt.Errorf("%w: %d", domain.ErrUnknownAgent, id))
	}
	return p.net.agents[id].kind
}

// Len returns the arena size.
func (p *Permit) Len() int {
	p.check()
	return len(p.net.agents)
}

// Inspect is Net.Inspect for the permit holder.
func (p *Permit) Inspect(id domain.AgentID) (domain.AgentView, error) {
	p.check()
	if !p.net.has(id) {
		return domain.AgentView{}, fmt.Errorf("%w: %d", domain.ErrUnknownAgent, id)
	}
	return p.net.view(id), nil
}
