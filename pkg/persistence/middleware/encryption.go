package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotSealed is returned when an encrypting store reads a plain snapshot.
var ErrNotSealed = errors.New("snapshot is missing its sealed envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot open a
	// snapshot, so keys can be rotated without rewriting stored nets.
	FallbackKeys [][]byte
}

// Validate checks key sizes.
func (c EncryptionConfig) Validate() error {
	if len(c.ActiveKey) != 32 {
		return fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(c.ActiveKey))
	}
	for i, k := range c.FallbackKeys {
		if len(k) != 32 {
			return fmt.Errorf("fallback key %d must be 32 bytes, got %d", i, len(k))
		}
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.NetStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals the arena of each
// snapshot with AES-GCM. The envelope keeps the id and the reduction
// counters readable so stores can still be listed and monitored.
// It panics on an invalid config; call Validate first for user input.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return func(next ports.NetStore) ports.NetStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

// sealedArena is the part of a snapshot that gets encrypted.
type sealedArena struct {
	Root   domain.AgentID            `msgpack:"root"`
	Agents []domain.AgentRecord      `msgpack:"agents"`
	Names  map[string]domain.AgentID `msgpack:"names"`
}

func (m *encryptionMiddleware) Save(ctx context.Context, snap *domain.Snapshot) error {
	plainText, err := msgpack.Marshal(sealedArena{Root: snap.Root, Agents: snap.Agents, Names: snap.Names})
	if err != nil {
		return fmt.Errorf("failed to marshal net: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt net: %w", err)
	}

	envelope := &domain.Snapshot{
		ID:        snap.ID,
		Root:      domain.None,
		Passes:    snap.Passes,
		Rewrites:  snap.Rewrites,
		UpdatedAt: snap.UpdatedAt,
		Sealed:    ciphertext,
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	envelope, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Fail closed: a plain snapshot under an encrypting store is not trusted.
	if len(envelope.Sealed) == 0 {
		return nil, fmt.Errorf("net %s: %w", id, ErrNotSealed)
	}

	plainText, err := decryptWithRotation(envelope.Sealed, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt net %s: %w", id, err)
	}

	var arena sealedArena
	if err := msgpack.Unmarshal(plainText, &arena); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted net: %w", err)
	}

	return &domain.Snapshot{
		ID:        envelope.ID,
		Root:      arena.Root,
		Agents:    arena.Agents,
		Names:     arena.Names,
		Passes:    envelope.Passes,
		Rewrites:  envelope.Rewrites,
		UpdatedAt: envelope.UpdatedAt,
	}, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
