package domain

import "time"

// AgentRecord is one arena slot in a snapshot.
type AgentRecord struct {
	Kind  Kind           `json:"kind" msgpack:"k"`
	Ports [Arity]PortRef `json:"ports" msgpack:"p"`
}

// Snapshot is a complete arena. Abandoned agents are kept: allocation is
// bump-only and indexes must stay stable across save and load.
type Snapshot struct {
	ID        string             `json:"id" msgpack:"id"`
	Root      AgentID            `json:"root" msgpack:"root"`
	Agents    []AgentRecord      `json:"agents" msgpack:"agents"`
	Names     map[string]AgentID `json:"names,omitempty" msgpack:"names,omitempty"`
	Passes    int                `json:"passes" msgpack:"passes"`
	Rewrites  int                `json:"rewrites" msgpack:"rewrites"`
	UpdatedAt time.Time          `json:"updated_at" msgpack:"updated_at"`
	// Sealed holds the encrypted arena when the snapshot is an envelope
	// written by an encrypting store. Agents and Names are empty then.
	Sealed []byte `json:"sealed,omitempty" msgpack:"sealed,omitempty"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Agents = append([]AgentRecord(nil), s.Agents...)
	if s.Names != nil {
		c.Names = make(map[string]AgentID, len(s.Names))
		for k, v := range s.Names {
			c.Names[k] = v
		}
	}
	return &c
}
