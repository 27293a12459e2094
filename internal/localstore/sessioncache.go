package localstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/partysync/partysync-cli/internal/backend"
)

const sessionKey = "session"

// SessionCache persists the auth session in the kv store, sealed with the
// device key so tokens are not readable from a copied database file.
type SessionCache struct {
	kv   *KV
	aead cipher.AEAD
}

func NewSessionCache(kv *KV, deviceKey []byte) (*SessionCache, error) {
	aead, err := chacha20poly1305.New(deviceKey)
	if err != nil {
		return nil, fmt.Errorf("init session cache: %w", err)
	}
	return &SessionCache{kv: kv, aead: aead}, nil
}

// Load returns the persisted session, or (nil, nil) when none is stored.
// A sealed blob that no longer decrypts (key file replaced, corrupt row)
// reads as "no session" rather than an error; the user just signs in again.
func (c *SessionCache) Load(ctx context.Context) (*backend.Session, error) {
	sealed, err := c.kv.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, nil
	}

	plain, err := c.open(sealed)
	if err != nil {
		return nil, nil
	}

	var s backend.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

func (c *SessionCache) Save(ctx context.Context, s *backend.Session) error {
	if s == nil {
		return c.Clear(ctx)
	}

	plain, err := json.Marshal(s)
	if err != nil {
		return err
	}

	sealed, err := c.seal(plain)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, sessionKey, sealed)
}

func (c *SessionCache) Clear(ctx context.Context) error {
	return c.kv.Delete(ctx, sessionKey)
}

// seal produces nonce||ciphertext.
func (c *SessionCache) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *SessionCache) open(sealed []byte) ([]byte, error) {
	if len(sealed) < c.aead.NonceSize() {
		return nil, errors.New("sealed session too short")
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	return c.aead.Open(nil, nonce, ciphertext, nil)
}
