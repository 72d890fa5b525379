package store

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// saltKey holds the per-store argon2 salt. It is stored in the clear and is
// hidden from List.
const saltKey = "__seal_salt"

const saltSize = 16

var ErrSealBroken = errors.New("sealed value cannot be opened")

// Sealed encrypts every value with XChaCha20-Poly1305 before handing it to
// the wrapped Repository. The key name is bound as associated data, so a
// value copied under another key fails to open.
type Sealed struct {
	inner Repository
	aead  cipher.AEAD
}

func deriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// NewSealed loads the store salt from inner (creating it on first use) and
// derives the sealing key from secret.
func NewSealed(ctx context.Context, inner Repository, secret []byte) (*Sealed, error) {
	salt, err := inner.Get(ctx, saltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if err := inner.Set(ctx, saltKey, salt); err != nil {
			return nil, err
		}
	}

	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) seal(key string, plain []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plain, []byte(key)), nil
}

func (s *Sealed) open(key string, sealed []byte) ([]byte, error) {
	if len(sealed) < s.aead.NonceSize() {
		return nil, fmt.Errorf("%w: metadata[%s] too short", ErrSealBroken, key)
	}
	nonce, ct := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: metadata[%s]", ErrSealBroken, key)
	}
	return plain, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil || v == nil {
		return nil, err
	}
	return s.open(key, v)
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	v, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, v)
}

func (s *Sealed) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		sv, err := s.seal(k, v)
		if err != nil {
			return err
		}
		sealed[k] = sv
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

func (s *Sealed) List(ctx context.Context) (map[string][]byte, error) {
	all, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	delete(all, saltKey)

	out := make(map[string][]byte, len(all))
	for k, v := range all {
		plain, err := s.open(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = plain
	}
	return out, nil
}

// Clear removes every key except the salt, so values written afterwards
// stay readable by the same secret after a restart.
func (s *Sealed) Clear(ctx context.Context) error {
	all, err := s.inner.List(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		if k != saltKey {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.inner.Delete(ctx, keys...)
}
