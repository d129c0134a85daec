package arena

import (
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/inet/pkg/domain"
)

type slot struct {
	kind  domain.Kind
	ports [domain.Arity]domain.PortRef
}

// Net is the arena owning every agent of one interaction net.
type Net struct {
	mu     sync.RWMutex
	agents []slot
	holder *Permit
}

// New creates an empty net.
func New() *Net {
	return &Net{}
}

// Len returns the number of agents ever allocated, abandoned ones included.
// It must not be called by the goroutine holding the permit; use
// Permit.Len there.
func (n *Net) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.agents)
}

// Inspect returns the kind and port peers of one agent.
// It must not be called by the goroutine holding the permit; use
// Permit.Inspect there.
func (n *Net) Inspect(id domain.AgentID) (domain.AgentView, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.has(id) {
		return domain.AgentView{}, fmt.Errorf("%w: %d", domain.ErrUnknownAgent, id)
	}
	return n.view(id), nil
}

// Snapshot copies the whole arena. Like Len and Inspect it takes the read
// lock, so the permit holder must release the permit first.
func (n *Net) Snapshot(id string, root domain.AgentID) *domain.Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s := &domain.Snapshot{
		ID:        id,
		Root:      root,
		Agents:    make([]domain.AgentRecord, len(n.agents)),
		UpdatedAt: time.Now().UTC(),
	}
	for i, a := range n.agents {
		s.Agents[i] = domain.AgentRecord{Kind: a.kind, Ports: a.ports}
	}
	return s
}

func (n *Net) has(id domain.AgentID) bool {
	return id >= 0 && int(id) < len(n.agents)
}

func (n *Net) view(id domain.AgentID) domain.AgentView {
	a := &n.agents[id]
	return domain.AgentView{ID: id, Kind: a.kind, Ports: a.ports}
}

// at panics on an id or index outside the arena; handing out such a
// reference is a programming error.
func (n *Net) at(p domain.PortRef) *domain.PortRef {
	if !n.has(p.Agent) {
		panic(fmt.Errorf("%w: %d", domain.ErrUnknownAgent, p.Agent))
	}
	if p.Index < 0 || p.Index >= domain.Arity {
		panic(fmt.Errorf("port index %d out of range on agent %d", p.Index, p.Agent))
	}
	return &n.agents[p.Agent].ports[p.Index]
}

func (n *Net) alloc(kind domain.Kind) domain.AgentID {
	id := domain.AgentID(len(n.agents))
	n.agents = append(n.agents, slot{
		kind:  kind,
		ports: [domain.Arity]domain.PortRef{domain.NoPort, domain.NoPort, domain.NoPort},
	})
	return id
}
