package inet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/inet/internal/presentation/graph"
	"github.com/aretw0/inet/internal/runtime"
	"github.com/aretw0/inet/internal/validator"
	loamAdapter "github.com/aretw0/inet/pkg/adapters/loam"
	"github.com/aretw0/inet/pkg/adapters/memory"
	"github.com/aretw0/inet/pkg/arena"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/aretw0/inet/pkg/session"
)

// ErrNoLoader is returned by LoadNamed when the engine has no library.
var ErrNoLoader = errors.New("no net loader configured")

// Engine is the high-level entry point of the library. It stores nets by
// id and drives their reduction, serialising work on the same net.
type Engine struct {
	runtime   *runtime.Engine
	loader    ports.NetLoader
	store     ports.NetStore
	locker    ports.DistributedLocker
	sessions  *session.Manager
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxPasses int
}

var _ ports.NetEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a NetLoader, bypassing the Loam library.
func WithLoader(l ports.NetLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets where nets are kept between calls. Defaults to memory.
func WithStore(s ports.NetStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker enables cross-process locking of nets.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxPasses bounds Normalize.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		e.maxPasses = n
	}
}

// New initializes an Engine. When no loader is injected and libraryPath is
// not empty, named nets are read from a Loam library at that path.
func New(libraryPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && libraryPath != "" {
		l, err := loamAdapter.Open(libraryPath)
		if err != nil {
			return nil, err
		}
		eng.loader = l
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxPasses(eng.maxPasses),
	)
	return eng, nil
}

// Load validates def, builds its arena and stores it under id, replacing
// any net already there. An empty id defaults to the definition name.
//
// The root should sit outside every redex: a rewrite that consumes it
// detaches its ports and later sweeps start from an empty net.
func (e *Engine) Load(ctx context.Context, id string, def *domain.Definition) (*domain.Snapshot, error) {
	if err := validator.Validate(def); err != nil {
		return nil, err
	}
	if id == "" {
		id = def.Name
	}
	if id == "" {
		return nil, fmt.Errorf("%w: net has no id", domain.ErrInvalidDefinition)
	}

	net, root, names, err := arena.Build(def)
	if err != nil {
		return nil, err
	}
	snap := net.Snapshot(id, root)
	snap.Names = names

	if orphans := validator.Unreachable(def); len(orphans) > 0 {
		e.logger.Warn("Agents unreachable from root", "net", id, "agents", orphans)
	}
	if err := e.sessions.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save net %s: %w", id, err)
	}
	e.logger.Info("Net loaded", "net", id, "agents", len(snap.Agents))
	return snap.Clone(), nil
}

// LoadNamed resolves name through the loader and stores it under name.
func (e *Engine) LoadNamed(ctx context.Context, name string) (*domain.Snapshot, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	def, err := e.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Load(ctx, name, def)
}

// Reduce runs one sweep over the stored net.
func (e *Engine) Reduce(ctx context.Context, id string) (domain.PassReport, error) {
	var report domain.PassReport
	err := e.sessions.Update(ctx, id, func(ctx context.Context, snap *domain.Snapshot) (*domain.Snapshot, error) {
		net, err := arena.FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		err = withPermit(net, func(p *arena.Permit) {
			report = e.runtime.Pass(ctx, id, p, snap.Root, snap.Passes+1)
		})
		if err != nil {
			e.logger.Error("Reduction aborted", "net", id, "err", err)
			return nil, err
		}
		return e.advance(net, snap, 1, report.Rewrites()), nil
	})
	return report, err
}

// Normalize sweeps the stored net until no rewrite applies. Progress made
// before the pass limit or a cancelled context is saved and the error is
// returned alongside the partial report. A contract violation saves nothing.
func (e *Engine) Normalize(ctx context.Context, id string) (domain.Report, error) {
	var (
		report  domain.Report
		stopped error
	)
	err := e.sessions.Update(ctx, id, func(ctx context.Context, snap *domain.Snapshot) (*domain.Snapshot, error) {
		net, err := arena.FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		err = withPermit(net, func(p *arena.Permit) {
			report, stopped = e.runtime.Normalize(ctx, id, p, snap.Root)
		})
		if err != nil {
			e.logger.Error("Normalisation aborted", "net", id, "err", err)
			return nil, err
		}
		return e.advance(net, snap, report.Passes, report.Rewrites), nil
	})
	if err != nil {
		return report, err
	}
	if stopped != nil {
		e.logger.Warn("Normalisation stopped early", "net", id, "passes", report.Passes, "err", stopped)
		return report, stopped
	}
	return report, nil
}

func (e *Engine) advance(net *arena.Net, prev *domain.Snapshot, passes, rewrites int) *domain.Snapshot {
	next := net.Snapshot(prev.ID, prev.Root)
	next.Names = prev.Names
	next.Passes = prev.Passes + passes
	next.Rewrites = prev.Rewrites + rewrites
	next.UpdatedAt = time.Now().UTC()
	return next
}

// withPermit runs fn holding the net's permit. A contract violation raised
// by the rule engine is returned as an error; any other panic propagates.
func withPermit(net *arena.Net, fn func(*arena.Permit)) (err error) {
	p := net.Acquire()
	defer p.Release()
	defer func() {
		if r := recover(); r != nil {
			cv, ok := r.(*domain.ContractViolation)
			if !ok {
				panic(r)
			}
			err = cv
		}
	}()
	fn(p)
	return nil
}

// Inspect returns one agent of the stored net. agent is a definition name
// or a numeric arena index.
func (e *Engine) Inspect(ctx context.Context, id, agent string) (domain.AgentView, error) {
	snap, err := e.sessions.Load(ctx, id)
	if err != nil {
		return domain.AgentView{}, err
	}
	aid, err := resolveAgent(snap, agent)
	if err != nil {
		return domain.AgentView{}, err
	}
	net, err := arena.FromSnapshot(snap)
	if err != nil {
		return domain.AgentView{}, err
	}
	return net.Inspect(aid)
}

func resolveAgent(snap *domain.Snapshot, agent string) (domain.AgentID, error) {
	if aid, ok := snap.Names[agent]; ok {
		return aid, nil
	}
	n, err := strconv.Atoi(agent)
	if err != nil {
		return domain.None, fmt.Errorf("%w: %q", domain.ErrUnknownAgent, agent)
	}
	return domain.AgentID(n), nil
}

// Snapshot returns a copy of the stored net.
func (e *Engine) Snapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	return e.sessions.Load(ctx, id)
}

// Render draws the part of the net reachable from its root, highlighting
// the current redexes.
func (e *Engine) Render(ctx context.Context, id string) (string, error) {
	snap, err := e.sessions.Load(ctx, id)
	if err != nil {
		return "", err
	}
	net, err := arena.FromSnapshot(snap)
	if err != nil {
		return "", err
	}

	p := net.Acquire()
	nodes := runtime.Reachable(p, snap.Root)
	redexes := runtime.ActivePairs(p, nodes)
	views := make([]domain.AgentView, 0, len(nodes))
	for _, aid := range nodes {
		v, err := p.Inspect(aid)
		if err != nil {
			p.Release()
			return "", err
		}
		views = append(views, v)
	}
	p.Release()

	labels := make(map[domain.AgentID]string, len(snap.Names))
	for name, aid := range snap.Names {
		labels[aid] = name
	}
	return graph.GenerateMermaid(views, labels, &graph.Overlay{Root: snap.Root, Redexes: redexes}), nil
}

// List returns the ids of every stored net.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Delete removes a stored net.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.sessions.Delete(ctx, id)
}

// Watch returns a channel that signals when a definition in the library
// changes. Returns an error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the configured loader, or nil.
func (e *Engine) Loader() ports.NetLoader {
	return e.loader
}

// MaxPasses returns the effective Normalize bound.
func (e *Engine) MaxPasses() int {
	return e.runtime.MaxPasses()
}
