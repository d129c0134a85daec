package loam

// NetMetadata is the document shape of a net in a Loam library. In Markdown
// files it is the frontmatter; the body is free-form notes.
type NetMetadata struct {
	ID     string          `json:"id" mapstructure:"id"`
	Root   string          `json:"root" mapstructure:"root"`
	Agents []AgentMetadata `json:"agents" mapstructure:"agents"`
	Wires  []WireMetadata  `json:"wires" mapstructure:"wires"`
}

// AgentMetadata declares one agent. Kind is parsed with domain.ParseKind.
type AgentMetadata struct {
	Name string `json:"name" mapstructure:"name"`
	Kind string `json:"kind" mapstructure:"kind"`
}

// WireMetadata joins two "<agent>.<index>" ports.
type WireMetadata struct {
	From string `json:"from" mapstructure:"from"`
	To   string `json:"to" mapstructure:"to"`
}
