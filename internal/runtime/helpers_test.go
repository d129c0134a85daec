package runtime_test

import (
	"testing"

	"github.com/aretw0/inet/pkg/arena"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/require"
)

// fixture holds a net under a live permit and names for its agents.
type fixture struct {
	t     *testing.T
	net   *arena.Net
	p     *arena.Permit
	names map[string]domain.AgentID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	n := arena.New()
	f := &fixture{t: t, net: n, p: n.Acquire(), names: make(map[string]domain.AgentID)}
	t.Cleanup(func() {
		defer func() { _ = recover() }()
		f.p.Release()
	})
	return f
}

func (f *fixture) add(name string, kind domain.Kind) domain.AgentID {
	id := f.p.Alloc(kind)
	f.names[name] = id
	return id
}

func (f *fixture) port(name string, index int) domain.PortRef {
	id, ok := f.names[name]
	require.True(f.t, ok, "unknown agent %s", name)
	return domain.Port(id, index)
}

func (f *fixture) wire(a string, ai int, b string, bi int) {
	f.p.Connect(f.port(a, ai), f.port(b, bi))
}

func (f *fixture) peer(name string, index int) domain.PortRef {
	return f.p.Peer(f.port(name, index))
}

// requireSymmetric checks P->Q implies Q->P over the whole arena.
func (f *fixture) requireSymmetric() {
	f.t.Helper()
	for i := 0; i < f.p.Len(); i++ {
		for idx := 0; idx < domain.Arity; idx++ {
			here := domain.Port(domain.AgentID(i), idx)
			there := f.p.Peer(here)
			if there.Free() {
				continue
			}
			require.Equal(f.t, here, f.p.Peer(there), "asymmetric link %s -> %s", here, there)
		}
	}
}

// mentions reports whether any port of the named agents references target.
func (f *fixture) mentions(target domain.AgentID, names ...string) bool {
	for _, n := range names {
		for idx := 0; idx < domain.Arity; idx++ {
			if f.peer(n, idx).Agent == target {
				return true
			}
		}
	}
	return false
}
