package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/inet/internal/presentation/graph"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func ports(p0, p1, p2 domain.PortRef) [domain.Arity]domain.PortRef {
	return [domain.Arity]domain.PortRef{p0, p1, p2}
}

// erasure mirrors the inspector scenario: root(0), era(1), body(2).
func erasure() []domain.AgentView {
	return []domain.AgentView{
		{ID: 0, Kind: domain.Constructor, Ports: ports(domain.NoPort, domain.Port(1, 0), domain.Port(2, 0))},
		{ID: 1, Kind: domain.Eraser, Ports: ports(domain.Port(0, 1), domain.NoPort, domain.NoPort)},
		{ID: 2, Kind: domain.Duplicator, Ports: ports(domain.Port(0, 2), domain.Port(2, 2), domain.Port(2, 1))},
	}
}

func TestGenerateMermaid_Shapes(t *testing.T) {
	out := graph.GenerateMermaid(erasure(), map[domain.AgentID]string{0: "root", 1: "era"}, nil)

	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, `a0["root <br/> constructor"]`)
	assert.Contains(t, out, `a1(("era <br/> eraser"))`)
	assert.Contains(t, out, `a2{{"#2 <br/> duplicator"}}`)
	assert.NotContains(t, out, "Overlay")
}

func TestGenerateMermaid_WiresOnce(t *testing.T) {
	out := graph.GenerateMermaid(erasure(), nil, nil)

	assert.Equal(t, 1, strings.Count(out, `a0 ---|"1-0"| a1`))
	assert.Equal(t, 1, strings.Count(out, `a0 ---|"2-0"| a2`))
	assert.Equal(t, 1, strings.Count(out, `a2 ---|"1-2"| a2`), "self loop drawn once")
	assert.NotContains(t, out, `a1 ---`)
	assert.Equal(t, 3, strings.Count(out, "---|"))
}

func TestGenerateMermaid_RedexAndOverlay(t *testing.T) {
	agents := []domain.AgentView{
		{ID: 0, Kind: domain.Constructor, Ports: ports(domain.Port(1, 0), domain.NoPort, domain.NoPort)},
		{ID: 1, Kind: domain.Constructor, Ports: ports(domain.Port(0, 0), domain.Port(7, 0), domain.NoPort)},
	}
	out := graph.GenerateMermaid(agents, nil, &graph.Overlay{Root: 0, Redexes: []domain.AgentID{0, 1, 1}})

	assert.Contains(t, out, `a0 ===|"0-0"| a1`)
	assert.NotContains(t, out, "a7", "wires leaving the list are dropped")
	assert.Contains(t, out, "class a0 root;")
	assert.Equal(t, 1, strings.Count(out, "class a1 redex;"))
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	agents := []domain.AgentView{{ID: 0, Kind: domain.Eraser, Ports: ports(domain.NoPort, domain.NoPort, domain.NoPort)}}
	out := graph.GenerateMermaid(agents, map[domain.AgentID]string{0: `say "hi"`}, nil)
	assert.Contains(t, out, `say 'hi'`)
}
