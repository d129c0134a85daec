package domain

import (
	"fmt"
	"strings"
)

// Kind is the type of an agent. The set is closed.
type Kind uint8

const (
	Constructor Kind = iota
	Duplicator
	Eraser
)

var kindNames = [...]string{
	Constructor: "constructor",
	Duplicator:  "duplicator",
	Eraser:      "eraser",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// ParseKind accepts the full names and the short forms con, dup and era.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "constructor", "con", "c":
		return Constructor, nil
	case "duplicator", "dup", "d":
		return Duplicator, nil
	case "eraser", "era", "e":
		return Eraser, nil
	}
	return 0, fmt.Errorf("%w: unknown agent kind %q", ErrInvalidDefinition, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid agent kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
