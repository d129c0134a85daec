// Package config loads inet settings from defaults, an optional YAML file
// and INET_* environment variables, in that order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INET_"

// Config is the resolved configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	MaxPasses int    `mapstructure:"max_passes"`
	Library   string `mapstructure:"library"`
	Store     Store  `mapstructure:"store"`
	HTTP      HTTP   `mapstructure:"http"`
}

// Store selects and configures the net store.
type Store struct {
	Kind   string `mapstructure:"kind"`
	File   File   `mapstructure:"file"`
	Redis  Redis  `mapstructure:"redis"`
	Bolt   Bolt   `mapstructure:"bolt"`
	Badger Badger `mapstructure:"badger"`
	// Encryption seals stored arenas when Key is set.
	Encryption Encryption `mapstructure:"encryption"`
}

type File struct {
	Path string `mapstructure:"path"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	Lock     bool          `mapstructure:"lock"`
}

type Bolt struct {
	Path string `mapstructure:"path"`
}

type Badger struct {
	Dir      string `mapstructure:"dir"`
	InMemory bool   `mapstructure:"in_memory"`
}

// Encryption holds base64 AES-256 keys. FallbackKeys may also be given as
// one comma-separated string, which is how environment variables arrive.
type Encryption struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether a key is configured.
func (e Encryption) Enabled() bool {
	return e.Key != ""
}

// Keys decodes the configured keys.
func (e Encryption) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption key: %w", err)
	}
	for _, entry := range e.FallbackKeys {
		for _, k := range strings.Split(entry, ",") {
			if k = strings.TrimSpace(k); k == "" {
				continue
			}
			b, err := decodeKey(k)
			if err != nil {
				return nil, nil, fmt.Errorf("fallback key: %w", err)
			}
			fallback = append(fallback, b)
		}
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(b))
	}
	return b, nil
}

type HTTP struct {
	Port int `mapstructure:"port"`
}

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
	StoreBadger = "badger"
)

// Defaults returns the settings used when nothing overrides them.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":  "info",
		"log_format": "text",
		"max_passes": 10000,
		"library":    "",
		"store": map[string]any{
			"kind":       StoreMemory,
			"file":       map[string]any{"path": ".inet/nets"},
			"redis":      map[string]any{"addr": "localhost:6379", "db": 0, "prefix": "inet:net:", "ttl": "0s", "lock": false},
			"bolt":       map[string]any{"path": ".inet/nets.db"},
			"badger":     map[string]any{"dir": ".inet/badger", "in_memory": false},
			"encryption": map[string]any{"key": "", "fallback_keys": []string{}},
		},
		"http": map[string]any{"port": 8080},
	}
}

// Load resolves the configuration. An empty path skips the file; a named
// file that does not exist is an error.
func Load(path string) (*Config, error) {
	settings := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var fromFile map[string]any
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		merge(settings, fromFile)
	}

	merge(settings, fromEnv(os.Environ()))
	return decode(settings)
}

func decode(settings map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can honour.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis, StoreBolt, StoreBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}
	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.MaxPasses <= 0 {
		errs = append(errs, fmt.Errorf("max_passes must be positive, got %d", c.MaxPasses))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http port %d out of range", c.HTTP.Port))
	}
	return errors.Join(errs...)
}

// fromEnv turns INET_STORE_REDIS_ADDR=x into {"store":{"redis":{"addr":"x"}}}.
// Nesting follows the keys already present in the defaults, so keys that
// contain an underscore (log_level, max_passes) resolve to the flat key.
func fromEnv(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		path := resolve(Defaults(), strings.ToLower(strings.TrimPrefix(key, EnvPrefix)))
		if path == nil {
			continue
		}
		set(out, path, value)
	}
	return out
}

func resolve(tree map[string]any, name string) []string {
	if _, ok := tree[name]; ok {
		return []string{name}
	}
	for key, child := range tree {
		sub, ok := child.(map[string]any)
		if !ok || !strings.HasPrefix(name, key+"_") {
			continue
		}
		if rest := resolve(sub, strings.TrimPrefix(name, key+"_")); rest != nil {
			return append([]string{key}, rest...)
		}
	}
	return nil
}

func set(tree map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		sub, ok := tree[key].(map[string]any)
		if !ok {
			sub = map[string]any{}
			tree[key] = sub
		}
		tree = sub
	}
	tree[path[len(path)-1]] = value
}

func merge(dst, src map[string]any) {
	for key, value := range src {
		if sub, ok := value.(map[string]any); ok {
			if existing, ok := dst[key].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[key] = value
	}
}
