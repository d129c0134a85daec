package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AgentID is the stable arena index of an agent.
type AgentID int

// None marks the absence of an agent.
const None AgentID = -1

// Port indexes. Every agent has exactly three ports.
const (
	Principal = 0
	Aux1      = 1
	Aux2      = 2

	Arity = 3
)

// PortRef identifies one port slot: (agent, index).
type PortRef struct {
	Agent AgentID `json:"agent" msgpack:"a"`
	Index int     `json:"index" msgpack:"i"`
}

// NoPort is the peer of a free port.
var NoPort = PortRef{Agent: None}

// Port builds a PortRef.
func Port(agent AgentID, index int) PortRef {
	return PortRef{Agent: agent, Index: index}
}

// Free reports whether the reference points nowhere.
func (p PortRef) Free() bool {
	return p.Agent < 0
}

// IsPrincipal reports whether p is a principal port.
func (p PortRef) IsPrincipal() bool {
	return !p.Free() && p.Index == Principal
}

func (p PortRef) String() string {
	if p.Free() {
		return "free"
	}
	return fmt.Sprintf("%d.%d", p.Agent, p.Index)
}

// PortName is the textual form "<agent>.<index>" used by definitions,
// e.g. "root.1".
type PortName string

// Split separates the agent name from the port index.
func (n PortName) Split() (string, int, error) {
	s := string(n)
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return "", 0, fmt.Errorf("%w: malformed port %q (want <agent>.<index>)", ErrInvalidDefinition, s)
	}
	idx, err := strconv.Atoi(s[dot+1:])
	if err != nil || idx < 0 || idx >= Arity {
		return "", 0, fmt.Errorf("%w: port index out of range in %q", ErrInvalidDefinition, s)
	}
	return s[:dot], idx, nil
}

// PortOf formats a PortName.
func PortOf(agent string, index int) PortName {
	return PortName(agent + "." + strconv.Itoa(index))
}
