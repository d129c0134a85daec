package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/inet/pkg/domain"
)

// Overlay marks agents to highlight.
type Overlay struct {
	Root    domain.AgentID
	Redexes []domain.AgentID
}

// GenerateMermaid renders agents as an undirected Mermaid flowchart.
// Shapes follow the kind:
// - Constructor: [Rectangle]
// - Duplicator: {{Hexagon}}
// - Eraser: ((Circle))
// Each wire is drawn once and labelled "<port>-<port>". Principal-to-principal
// wires use a thick link. Wires to agents outside the list are dropped.
// labels maps agent ids to display names; unnamed agents show as #<id>.
func GenerateMermaid(agents []domain.AgentView, labels map[domain.AgentID]string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	present := make(map[domain.AgentID]bool, len(agents))
	for _, a := range agents {
		present[a.ID] = true
	}

	for _, a := range agents {
		opener, closer := "[", "]"
		switch a.Kind {
		case domain.Duplicator:
			opener, closer = "{{", "}}"
		case domain.Eraser:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", nodeID(a.ID), opener, label(a.ID, labels), a.Kind, closer))
	}

	for _, a := range agents {
		for i, peer := range a.Ports {
			if peer.Free() || !present[peer.Agent] {
				continue
			}
			here := domain.Port(a.ID, i)
			if later(here, peer) {
				continue
			}
			link := "---"
			if here.IsPrincipal() && peer.IsPrincipal() {
				link = "==="
			}
			sb.WriteString(fmt.Sprintf("    %s %s|\"%d-%d\"| %s\n", nodeID(a.ID), link, i, peer.Index, nodeID(peer.Agent)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef root fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef redex fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		if present[overlay.Root] {
			sb.WriteString(fmt.Sprintf("    class %s root;\n", nodeID(overlay.Root)))
		}
		seen := make(map[domain.AgentID]bool)
		for _, id := range overlay.Redexes {
			if present[id] && !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s redex;\n", nodeID(id)))
			}
		}
	}

	return sb.String()
}

// later reports whether the wire a-b is drawn from b's side instead.
func later(a, b domain.PortRef) bool {
	if a.Agent != b.Agent {
		return a.Agent > b.Agent
	}
	return a.Index > b.Index
}

func nodeID(id domain.AgentID) string {
	return fmt.Sprintf("a%d", id)
}

func label(id domain.AgentID, labels map[domain.AgentID]string) string {
	if name, ok := labels[id]; ok && name != "" {
		return strings.ReplaceAll(name, "\"", "'")
	}
	return fmt.Sprintf("#%d", id)
}
