package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/inet/pkg/arena"
	"github.com/aretw0/inet/pkg/domain"
)

// Reachable lists every agent reachable from root through any port, in
// depth-first discovery order. Identity is the AgentID.
func Reachable(p *arena.Permit, root domain.AgentID) []domain.AgentID {
	if root < 0 || int(root) >= p.Len() {
		return nil
	}
	visited := map[domain.AgentID]bool{root: true}
	order := []domain.AgentID{root}
	stack := []domain.AgentID{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := 0; i < domain.Arity; i++ {
			peer := p.Peer(domain.Port(id, i))
			if peer.Free() || visited[peer.Agent] {
				continue
			}
			visited[peer.Agent] = true
			order = append(order, peer.Agent)
			stack = append(stack, peer.Agent)
		}
	}
	return order
}

// ActivePairs keeps the agents whose principal port is connected to the
// principal port of another agent. Both members of a pair are kept. Only
// the forward reference is inspected; ReducePair checks the way back.
func ActivePairs(p *arena.Permit, nodes []domain.AgentID) []domain.AgentID {
	var out []domain.AgentID
	for _, id := range nodes {
		if _, ok := principalPartner(p, id); ok {
			out = append(out, id)
		}
	}
	return out
}

func principalPartner(p *arena.Permit, id domain.AgentID) (domain.AgentID, bool) {
	peer := p.Peer(domain.Port(id, domain.Principal))
	if !peer.IsPrincipal() || peer.Agent == id {
		return domain.None, false
	}
	return peer.Agent, true
}

// ReduceNet performs one sweep over the net reachable from root.
//
// The reachable set and the list of redex members are computed once, before
// any rewrite. Each listed agent is then reduced with its principal
// neighbour if its principal port still faces one; the second member of a
// pair is skipped that way once the first rewrite has detached it. Redexes
// created during the sweep are not guaranteed to be reduced before the next
// call. A malformed net panics in ReducePair.
func (e *Engine) ReduceNet(ctx context.Context, p *arena.Permit, root domain.AgentID) domain.PassReport {
	return e.sweep(ctx, "", p, root)
}

func (e *Engine) sweep(ctx context.Context, netID string, p *arena.Permit, root domain.AgentID) domain.PassReport {
	nodes := Reachable(p, root)
	pairs := ActivePairs(p, nodes)
	report := domain.PassReport{
		Reachable: len(nodes),
		Redexes:   len(pairs) / 2,
		Applied:   make(map[domain.Rule]int),
	}

	for _, id := range pairs {
		other, ok := principalPartner(p, id)
		if !ok {
			continue
		}
		rule := ReducePair(p, id, other)
		report.Record(rule)
		e.logger.Debug("rewrite", "rule", rule, "left", id, "right", other)
		e.emitRewrite(ctx, netID, rule, id, other)
	}
	return report
}

// Normalize sweeps until a pass rewrites nothing. Eraser pairs do not
// count as rewrites, so a net whose only redexes are eraser pairs is in
// normal form. The context is checked between passes.
func (e *Engine) Normalize(ctx context.Context, netID string, p *arena.Permit, root domain.AgentID) (domain.Report, error) {
	var total domain.Report
	total.Applied = make(map[domain.Rule]int)

	for pass := 1; pass <= e.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		start := time.Now()
		report := e.sweep(ctx, netID, p, root)
		took := time.Since(start)
		total.Add(report)
		e.emitPass(ctx, netID, pass, report, took)

		if report.Rewrites() == 0 {
			total.NormalForm = true
			e.logger.Debug("normal form reached", "net", netID, "passes", total.Passes, "rewrites", total.Rewrites)
			return total, nil
		}
	}
	return total, fmt.Errorf("%w: %d passes", domain.ErrPassLimit, e.maxPasses)
}

// Pass runs a single sweep and reports it through the pass hook.
func (e *Engine) Pass(ctx context.Context, netID string, p *arena.Permit, root domain.AgentID, pass int) domain.PassReport {
	start := time.Now()
	report := e.sweep(ctx, netID, p, root)
	e.emitPass(ctx, netID, pass, report, time.Since(start))
	return report
}
