package dsl

import (
	"fmt"

	"github.com/aretw0/inet/internal/validator"
	"github.com/aretw0/inet/pkg/adapters/memory"
	"github.com/aretw0/inet/pkg/domain"
)

// Builder accumulates a definition. The first agent declared is the root
// unless Root says otherwise.
type Builder struct {
	def    domain.Definition
	agents map[string]*AgentBuilder
}

// New creates a builder for a net called name.
func New(name string) *Builder {
	return &Builder{
		def:    domain.Definition{Name: name},
		agents: make(map[string]*AgentBuilder),
	}
}

// Agent declares an agent, or returns the existing builder for name.
func (b *Builder) Agent(name string, kind domain.Kind) *AgentBuilder {
	if ab, ok := b.agents[name]; ok {
		return ab
	}
	if b.def.Root == "" {
		b.def.Root = name
	}
	b.def.Agents = append(b.def.Agents, domain.AgentDef{Name: name, Kind: kind})
	ab := &AgentBuilder{name: name, builder: b}
	b.agents[name] = ab
	return ab
}

// Con declares a constructor.
func (b *Builder) Con(name string) *AgentBuilder { return b.Agent(name, domain.Constructor) }

// Dup declares a duplicator.
func (b *Builder) Dup(name string) *AgentBuilder { return b.Agent(name, domain.Duplicator) }

// Era declares an eraser.
func (b *Builder) Era(name string) *AgentBuilder { return b.Agent(name, domain.Eraser) }

// Root selects the root agent.
func (b *Builder) Root(name string) *Builder {
	b.def.Root = name
	return b
}

// Wire joins two ports given as "<agent>.<index>".
func (b *Builder) Wire(from, to domain.PortName) *Builder {
	b.def.Wires = append(b.def.Wires, domain.Wire{From: from, To: to})
	return b
}

// Redex joins the principal ports of a and c.
func (b *Builder) Redex(a, c string) *Builder {
	return b.Wire(domain.PortOf(a, domain.Principal), domain.PortOf(c, domain.Principal))
}

// Definition validates and returns a copy of the accumulated definition.
func (b *Builder) Definition() (*domain.Definition, error) {
	def := b.def.Clone()
	if err := validator.Validate(def); err != nil {
		return nil, fmt.Errorf("dsl %s: %w", b.def.Name, err)
	}
	return def, nil
}

// Build compiles the net into a memory loader holding one definition.
func (b *Builder) Build() (*memory.Loader, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(def)
}

// AgentBuilder wires the ports of one agent.
type AgentBuilder struct {
	name    string
	builder *Builder
}

// Port joins port index of this agent to port toIndex of agent to.
func (ab *AgentBuilder) Port(index int, to string, toIndex int) *AgentBuilder {
	ab.builder.Wire(domain.PortOf(ab.name, index), domain.PortOf(to, toIndex))
	return ab
}

// Principal wires port 0.
func (ab *AgentBuilder) Principal(to string, toIndex int) *AgentBuilder {
	return ab.Port(domain.Principal, to, toIndex)
}

// Aux1 wires port 1.
func (ab *AgentBuilder) Aux1(to string, toIndex int) *AgentBuilder {
	return ab.Port(domain.Aux1, to, toIndex)
}

// Aux2 wires port 2.
func (ab *AgentBuilder) Aux2(to string, toIndex int) *AgentBuilder {
	return ab.Port(domain.Aux2, to, toIndex)
}

// Loop joins this agent's two auxiliary ports.
func (ab *AgentBuilder) Loop() *AgentBuilder {
	return ab.Port(domain.Aux1, ab.name, domain.Aux2)
}
