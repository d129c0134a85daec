package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/inet/internal/config"
	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/internal/testutils"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name   string
		store  config.Store
		locker bool
	}{
		{"memory", config.Store{Kind: config.StoreMemory}, false},
		{"file", config.Store{Kind: config.StoreFile, File: config.File{Path: filepath.Join(dir, "nets")}}, false},
		{"redis", config.Store{Kind: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr(), Prefix: "t:", Lock: true}}, true},
		{"bolt", config.Store{Kind: config.StoreBolt, Bolt: config.Bolt{Path: filepath.Join(dir, "sub", "nets.db")}}, false},
		{"badger", config.Store{Kind: config.StoreBadger, Badger: config.Badger{InMemory: true}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := OpenStore(tt.store, logging.NewNop())
			require.NoError(t, err)
			defer backend.Close()

			assert.Equal(t, tt.locker, backend.Locker != nil)

			cfg := defaults(t)
			eng, err := NewEngine(EngineDeps{Config: cfg, Backend: backend})
			require.NoError(t, err)

			ctx := context.Background()
			_, err = eng.Load(ctx, "", testutils.Annihilation())
			require.NoError(t, err)
			report, err := eng.Normalize(ctx, "annihilation")
			require.NoError(t, err)
			assert.Equal(t, 1, report.Rewrites)

			snap, err := backend.Store.Load(ctx, "annihilation")
			require.NoError(t, err)
			assert.Equal(t, 2, snap.Passes, "progress reaches the configured store")
		})
	}
}

func TestOpenStore_Encrypted(t *testing.T) {
	store := config.Store{
		Kind: config.StoreFile,
		File: config.File{Path: t.TempDir()},
		Encryption: config.Encryption{
			Key: base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)),
		},
	}
	backend, err := OpenStore(store, logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	eng, err := NewEngine(EngineDeps{Config: defaults(t), Backend: backend})
	require.NoError(t, err)
	_, err = eng.Load(ctx, "", testutils.Erasure())
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(store.File.Path, "*"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sealed"`)
	assert.NotContains(t, string(raw), `"names"`, "names never reach the disk")

	view, err := eng.Inspect(ctx, "erasure", "root")
	require.NoError(t, err)
	assert.Equal(t, domain.AgentID(0), view.ID)

	store.Encryption.Key = "c2hvcnQ="
	_, err = OpenStore(store, logging.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := OpenStore(config.Store{Kind: "etcd"}, logging.NewNop())
	assert.ErrorContains(t, err, "etcd")
}

func TestNewEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := defaults(t)
	eng, err := NewEngine(EngineDeps{Config: cfg, Registry: reg})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.Load(ctx, "", testutils.Duplication())
	require.NoError(t, err)
	_, err = eng.Normalize(ctx, "duplication")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "inet_rewrites_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per applied rule")
}

func TestNewEngine_RequiresConfig(t *testing.T) {
	_, err := NewEngine(EngineDeps{})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := defaults(t)
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"

	var buf bytes.Buffer
	logger, err := NewLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg, &buf)
	assert.Error(t, err)
}
