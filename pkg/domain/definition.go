package domain

// Definition is a net as handed over by a program loader. Agents are named;
// wires join two named ports. Ports not mentioned in any wire are free.
type Definition struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Root   string     `json:"root" yaml:"root" mapstructure:"root"`
	Agents []AgentDef `json:"agents" yaml:"agents" mapstructure:"agents"`
	Wires  []Wire     `json:"wires,omitempty" yaml:"wires,omitempty" mapstructure:"wires"`
}

// AgentDef declares one agent of a definition.
type AgentDef struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Kind Kind   `json:"kind" yaml:"kind" mapstructure:"kind"`
}

// Wire connects two ports, e.g. {From: "root.1", To: "era.0"}.
type Wire struct {
	From PortName `json:"from" yaml:"from" mapstructure:"from"`
	To   PortName `json:"to" yaml:"to" mapstructure:"to"`
}

// Agent returns the AgentDef with the given name.
func (d *Definition) Agent(name string) (AgentDef, bool) {
	for _, a := range d.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentDef{}, false
}

// Clone returns a deep copy.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Agents = append([]AgentDef(nil), d.Agents...)
	c.Wires = append([]Wire(nil), d.Wires...)
	return &c
}
