package inet_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/testutils"
	"github.com/aretw0/inet/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/inet/pkg/adapters/redis"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...inet.Option) *inet.Engine {
	t.Helper()
	eng, err := inet.New("", opts...)
	require.NoError(t, err)
	return eng
}

func load(t *testing.T, eng *inet.Engine, def *domain.Definition) string {
	t.Helper()
	snap, err := eng.Load(context.Background(), "", def)
	require.NoError(t, err)
	return snap.ID
}

func TestEngine_LoadAndInspect(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	snap, err := eng.Load(ctx, "scenario", testutils.Erasure())
	require.NoError(t, err)
	assert.Equal(t, "scenario", snap.ID)
	assert.Len(t, snap.Agents, 3)
	assert.Equal(t, map[string]domain.AgentID{"root": 0, "era": 1, "body": 2}, snap.Names)

	root, err := eng.Inspect(ctx, "scenario", "root")
	require.NoError(t, err)
	assert.Equal(t, domain.Constructor, root.Kind)
	assert.Equal(t, [domain.Arity]domain.PortRef{domain.NoPort, domain.Port(1, 0), domain.Port(2, 0)}, root.Ports)

	era, err := eng.Inspect(ctx, "scenario", "era")
	require.NoError(t, err)
	assert.Equal(t, domain.Eraser, era.Kind)
	assert.Equal(t, domain.Port(0, 1), era.Peer(domain.Principal))

	body, err := eng.Inspect(ctx, "scenario", "2")
	require.NoError(t, err)
	assert.Equal(t, domain.Duplicator, body.Kind)
	assert.Equal(t, [domain.Arity]domain.PortRef{domain.Port(0, 2), domain.Port(2, 2), domain.Port(2, 1)}, body.Ports)

	_, err = eng.Inspect(ctx, "scenario", "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
	_, err = eng.Inspect(ctx, "scenario", "9")
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
	_, err = eng.Inspect(ctx, "missing", "root")
	assert.ErrorIs(t, err, domain.ErrNetNotFound)
}

func TestEngine_Load_Invalid(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	def := testutils.Erasure()
	def.Root = "nobody"
	_, err := eng.Load(ctx, "", def)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	def = testutils.Erasure()
	def.Name = ""
	_, err = eng.Load(ctx, "", def)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition, "no id and no name")

	ids, err := eng.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEngine_Reduce(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	id := load(t, eng, testutils.Annihilation())
	require.Equal(t, "annihilation", id)

	pass, err := eng.Reduce(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, pass.Reachable)
	assert.Equal(t, 1, pass.Redexes)
	assert.Equal(t, map[domain.Rule]int{domain.RuleAnnihilate: 1}, pass.Applied)

	root, err := eng.Inspect(ctx, id, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.Port(0, 2), root.Peer(domain.Aux1))
	assert.Equal(t, domain.Port(0, 1), root.Peer(domain.Aux2))

	pass, err = eng.Reduce(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, pass.Reachable)
	assert.Zero(t, pass.Rewrites())

	snap, err := eng.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Passes)
	assert.Equal(t, 1, snap.Rewrites)
	assert.Len(t, snap.Agents, 3, "abandoned agents stay in the arena")
}

func TestEngine_Normalize(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	id := load(t, eng, testutils.Duplication())

	report, err := eng.Normalize(ctx, id)
	require.NoError(t, err)
	assert.True(t, report.NormalForm)
	assert.Equal(t, 3, report.Passes)
	assert.Equal(t, 3, report.Rewrites)
	assert.Equal(t, 4, report.Allocated)
	assert.Equal(t, 1, report.Applied[domain.RuleDuplicate])
	assert.Equal(t, 2, report.Applied[domain.RuleErase])

	snap, err := eng.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Agents, 9)
	assert.Equal(t, 3, snap.Passes)
	assert.Equal(t, 3, snap.Rewrites)
}

func TestEngine_Normalize_PassLimitKeepsProgress(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, inet.WithMaxPasses(1))
	assert.Equal(t, 1, eng.MaxPasses())
	id := load(t, eng, testutils.Annihilation())

	report, err := eng.Normalize(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPassLimit)
	assert.False(t, report.NormalForm)
	assert.Equal(t, 1, report.Rewrites)

	snap, err := eng.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Passes)
	assert.Equal(t, 1, snap.Rewrites)

	report, err = eng.Normalize(ctx, id)
	require.NoError(t, err)
	assert.True(t, report.NormalForm)
	assert.Zero(t, report.Rewrites)
}

func TestEngine_Normalize_CancelKeepsProgress(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisAdapter.New(mr.Addr(), "", 0)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng := newEngine(t, inet.WithStore(store), inet.WithLifecycleHooks(domain.LifecycleHooks{
		OnPass: func(context.Context, *domain.PassEvent) { cancel() },
	}))
	id := load(t, eng, testutils.Annihilation())

	report, err := eng.Normalize(ctx, id)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, report.NormalForm)
	assert.Equal(t, 1, report.Passes)
	assert.Equal(t, 1, report.Rewrites)

	snap, err := eng.Snapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Passes)
	assert.Equal(t, 1, snap.Rewrites)
}

// brokenSnapshot holds agent 1 pointing at agent 2's principal port while
// agent 2 points back at agent 1's auxiliary port.
func brokenSnapshot() *domain.Snapshot {
	free := domain.NoPort
	return &domain.Snapshot{
		ID:   "broken",
		Root: 0,
		Agents: []domain.AgentRecord{
			{Kind: domain.Constructor, Ports: [domain.Arity]domain.PortRef{free, domain.Port(1, 2), free}},
			{Kind: domain.Constructor, Ports: [domain.Arity]domain.PortRef{domain.Port(2, 0), free, domain.Port(0, 1)}},
			{Kind: domain.Constructor, Ports: [domain.Arity]domain.PortRef{domain.Port(1, 1), free, free}},
		},
	}
}

func TestEngine_ContractViolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, brokenSnapshot()))
	eng := newEngine(t, inet.WithStore(store))

	_, err := eng.Reduce(ctx, "broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotARedex)
	var cv *domain.ContractViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, domain.AgentID(1), cv.Left)
	assert.Equal(t, domain.AgentID(2), cv.Right)

	_, err = eng.Normalize(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrNotARedex)

	snap, err := store.Load(ctx, "broken")
	require.NoError(t, err)
	assert.Zero(t, snap.Passes, "a failed reduction saves nothing")
	assert.Equal(t, brokenSnapshot().Agents, snap.Agents)
}

func TestEngine_Render(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	id := load(t, eng, testutils.Annihilation())

	out, err := eng.Render(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, `a0["root <br/> constructor"]`)
	assert.Contains(t, out, `a1 ===|"0-0"| a2`)
	assert.Contains(t, out, "class a0 root;")
	assert.Contains(t, out, "class a1 redex;")
	assert.Contains(t, out, "class a2 redex;")

	_, err = eng.Normalize(ctx, id)
	require.NoError(t, err)
	out, err = eng.Render(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, out, "a1")
	assert.Contains(t, out, `a0 ---|"1-2"| a0`)
}

func TestEngine_LoadNamed(t *testing.T) {
	ctx := context.Background()

	_, err := newEngine(t).LoadNamed(ctx, "erasure")
	assert.ErrorIs(t, err, inet.ErrNoLoader)

	loader, err := memory.NewLoader(testutils.Erasure(), testutils.Annihilation())
	require.NoError(t, err)
	eng := newEngine(t, inet.WithLoader(loader))
	assert.Same(t, loader, eng.Loader())

	snap, err := eng.LoadNamed(ctx, "erasure")
	require.NoError(t, err)
	assert.Equal(t, "erasure", snap.ID)

	_, err = eng.LoadNamed(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNetNotFound)

	_, err = eng.Watch(ctx)
	assert.Error(t, err, "memory loader cannot watch")
}

func TestEngine_LoadNamed_Library(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"pair.md": `---
root: root
agents:
  - {name: root, kind: con}
  - {name: a, kind: con}
  - {name: b, kind: con}
wires:
  - {from: a.0, to: b.0}
  - {from: a.1, to: root.1}
  - {from: b.1, to: root.2}
  - {from: a.2, to: b.2}
---
One annihilation.`,
	})

	eng, err := inet.New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.LoadNamed(ctx, "pair")
	require.NoError(t, err)

	report, err := eng.Normalize(ctx, "pair")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied[domain.RuleAnnihilate])
}

func TestEngine_Hooks(t *testing.T) {
	var (
		mu     sync.Mutex
		rules  []domain.Rule
		passes []int
	)
	eng := newEngine(t, inet.WithLifecycleHooks(domain.LifecycleHooks{
		OnRewrite: func(_ context.Context, e *domain.RewriteEvent) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "duplication", e.NetID)
			rules = append(rules, e.Rule)
		},
		OnPass: func(_ context.Context, e *domain.PassEvent) {
			mu.Lock()
			defer mu.Unlock()
			passes = append(passes, e.Pass)
		},
	}))
	id := load(t, eng, testutils.Duplication())

	_, err := eng.Normalize(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []domain.Rule{domain.RuleDuplicate, domain.RuleErase, domain.RuleErase}, rules)
	assert.Equal(t, []int{1, 2, 3}, passes)
}

func TestEngine_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	load(t, eng, testutils.Erasure())
	load(t, eng, testutils.Annihilation())

	ids, err := eng.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"annihilation", "erasure"}, ids)

	require.NoError(t, eng.Delete(ctx, "erasure"))
	_, err = eng.Snapshot(ctx, "erasure")
	assert.ErrorIs(t, err, domain.ErrNetNotFound)
	_, err = eng.Reduce(ctx, "erasure")
	assert.ErrorIs(t, err, domain.ErrNetNotFound)
}

func TestEngine_ConcurrentReduce(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	id := load(t, eng, testutils.Annihilation())

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pass, err := eng.Reduce(ctx, id)
			assert.NoError(t, err)
			mu.Lock()
			total += pass.Rewrites()
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, total, "the pair is reduced exactly once")
	snap, err := eng.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workers, snap.Passes)
	assert.Equal(t, 1, snap.Rewrites)
}
