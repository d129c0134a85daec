package domain

import (
	"errors"
	"fmt"
)

// ErrNetNotFound is returned when a net id or definition name is unknown to a store or loader.
var ErrNetNotFound = errors.New("net not found")

// ErrUnknownAgent is returned by the inspector for an agent id outside the arena.
var ErrUnknownAgent = errors.New("unknown agent")

// ErrInvalidDefinition is returned when a definition cannot be turned into a net.
var ErrInvalidDefinition = errors.New("invalid net definition")

// ErrNotARedex marks a contract violation: the rule engine was handed two
// agents that are not connected principal to principal.
var ErrNotARedex = errors.New("agents do not form an active pair")

// ErrPassLimit is returned when normalisation does not reach normal form
// within the configured number of passes.
var ErrPassLimit = errors.New("pass limit reached before normal form")

// ErrPermitInvalid is raised when a released or foreign permit is used.
var ErrPermitInvalid = errors.New("permit is not valid for this net")

// ContractViolation is the panic value raised by the rule engine when its
// precondition does not hold. It is fatal for the reduction in progress.
type ContractViolation struct {
	Left, Right AgentID
	Reason      string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%v: %d and %d: %s", ErrNotARedex, e.Left, e.Right, e.Reason)
}

func (e *ContractViolation) Unwrap() error {
	return ErrNotARedex
}
