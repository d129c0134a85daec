package domain

// AgentView is the read-only picture of one agent exposed by the net
// inspector: its kind and, for each port, either NoPort or its peer.
type AgentView struct {
	ID    AgentID        `json:"id"`
	Kind  Kind           `json:"kind"`
	Ports [Arity]PortRef `json:"ports"`
}

// Peer returns the peer of the given port index.
func (v AgentView) Peer(index int) PortRef {
	return v.Ports[index]
}
