package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/inet/pkg/domain"
)

// Validate checks a definition before it is built: names are unique and
// non-empty, kinds are known, the root exists, every wire names two
// distinct well-formed ports of known agents and no port is wired twice.
// Every problem is reported, not just the first.
func Validate(def *domain.Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", domain.ErrInvalidDefinition)
	}

	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	known := make(map[string]bool, len(def.Agents))
	for i, a := range def.Agents {
		switch {
		case a.Name == "":
			report("agent #%d has no name", i)
		case strings.Contains(a.Name, "."):
			report("agent name %q contains '.'", a.Name)
		case known[a.Name]:
			report("duplicate agent %q", a.Name)
		}
		if !a.Kind.Valid() {
			report("agent %q has invalid kind %s", a.Name, a.Kind)
		}
		known[a.Name] = true
	}

	if def.Root == "" {
		report("root is not set")
	} else if !known[def.Root] {
		report("root %q is not an agent", def.Root)
	}

	used := make(map[domain.PortName]int)
	for i, w := range def.Wires {
		ends := []domain.PortName{w.From, w.To}
		for _, end := range ends {
			agent, idx, err := end.Split()
			if err != nil {
				report("wire #%d: malformed port %q", i, end)
				continue
			}
			if !known[agent] {
				report("wire #%d: unknown agent %q", i, agent)
				continue
			}
			canonical := domain.PortOf(agent, idx)
			used[canonical]++
			if used[canonical] == 2 {
				report("port %s is wired more than once", canonical)
			}
		}
		if w.From == w.To {
			report("wire #%d joins %s to itself", i, w.From)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidDefinition, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// Unreachable lists agents that no path of wires connects to the root, in
// sorted order. Such agents are legal but never reduced.
func Unreachable(def *domain.Definition) []string {
	adj := make(map[string][]string)
	for _, w := range def.Wires {
		a, _, errA := w.From.Split()
		b, _, errB := w.To.Split()
		if errA != nil || errB != nil {
			continue
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	seen := map[string]bool{def.Root: true}
	queue := []string{def.Root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []string
	for _, a := range def.Agents {
		if !seen[a.Name] {
			out = append(out, a.Name)
		}
	}
	sort.Strings(out)
	return out
}
