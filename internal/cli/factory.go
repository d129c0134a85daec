package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/config"
	"github.com/aretw0/inet/internal/logging"
	badgerAdapter "github.com/aretw0/inet/pkg/adapters/badger"
	boltAdapter "github.com/aretw0/inet/pkg/adapters/bolt"
	fileAdapter "github.com/aretw0/inet/pkg/adapters/file"
	"github.com/aretw0/inet/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/inet/pkg/adapters/redis"
	"github.com/aretw0/inet/pkg/observability"
	"github.com/aretw0/inet/pkg/persistence/middleware"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Backend is an opened net store plus what it takes to shut it down.
type Backend struct {
	Store  ports.NetStore
	Locker ports.DistributedLocker
	closer io.Closer
}

// Close releases the store's resources.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// OpenStore builds the net store selected by cfg.Kind, sealing it when an
// encryption key is configured.
func OpenStore(cfg config.Store, logger *slog.Logger) (*Backend, error) {
	b, err := openStore(cfg, logger)
	if err != nil || !cfg.Encryption.Enabled() {
		return b, err
	}
	active, fallback, err := cfg.Encryption.Keys()
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	}))
	return b, nil
}

func openStore(cfg config.Store, logger *slog.Logger) (*Backend, error) {
	switch cfg.Kind {
	case config.StoreMemory, "":
		return &Backend{Store: memory.NewStore()}, nil

	case config.StoreFile:
		return &Backend{Store: fileAdapter.NewStore(cfg.File.Path)}, nil

	case config.StoreRedis:
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		b := &Backend{Store: store, closer: store}
		if cfg.Redis.Lock {
			b.Locker = redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix)
		}
		return b, nil

	case config.StoreBolt:
		if err := ensureDir(filepath.Dir(cfg.Bolt.Path)); err != nil {
			return nil, err
		}
		store, err := boltAdapter.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, closer: store}, nil

	case config.StoreBadger:
		store, err := badgerAdapter.Open(badgerAdapter.Options{
			Dir:      cfg.Badger.Dir,
			InMemory: cfg.Badger.InMemory,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, closer: store}, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// EngineDeps collects what NewEngine wires into the facade.
type EngineDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Backend  *Backend
	Registry prometheus.Registerer
}

// NewEngine builds the facade from configuration. Rewrites and passes are
// logged through the engine logger; metrics are recorded when a registry
// is given.
func NewEngine(deps EngineDeps) (*inet.Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	opts := []inet.Option{
		inet.WithLogger(logger),
		inet.WithMaxPasses(deps.Config.MaxPasses),
		inet.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if deps.Backend != nil {
		opts = append(opts, inet.WithStore(deps.Backend.Store))
		if deps.Backend.Locker != nil {
			opts = append(opts, inet.WithLocker(deps.Backend.Locker))
		}
	}
	if deps.Registry != nil {
		opts = append(opts, inet.WithLifecycleHooks(observability.NewMetrics(deps.Registry).Hooks()))
	}

	engine, err := inet.New(deps.Config.Library, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// NewLogger builds the application logger from configuration.
func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(w, level, cfg.LogFormat), nil
}
