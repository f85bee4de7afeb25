// internal/vault/vault.go
//
// Vault lookups for the record store password.
//
// Context
// -------
// Consulted only when `database.password` is a `vault:<mount>/<path>#<key>`
// reference.  The password is read once at boot (and again on config
// reload), so the client keeps no renewal loop; a short per-key cache
// absorbs repeated reads.  Address and token come from the standard
// VAULT_ADDR and VAULT_TOKEN variables.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// ErrNoToken is returned by New when no token is available.
var ErrNoToken = errors.New("vault: no token (set VAULT_TOKEN)")

// Client reads KV v2 secrets.  It satisfies config.SecretSource.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	mu    sync.Mutex
	cache map[string]entry // "<path>#<key>"
}

type entry struct {
	val string
	exp time.Time
}

// New builds a client from the VAULT_* environment.
func New(_ context.Context, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault: environment: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: client: %w", err)
	}
	if api.Token() == "" {
		return nil, ErrNoToken
	}
	log.Debugw("vault client ready", "addr", api.Address())
	return &Client{api: api, log: log, cache: make(map[string]entry)}, nil
}

// GetKV returns key from the KV v2 secret at secretPath, whose first
// segment is the mount.  A positive ttl caches the value.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}
	ref := secretPath + "#" + key

	c.mu.Lock()
	e, ok := c.cache[ref]
	c.mu.Unlock()
	if ok && time.Now().Before(e.exp) {
		return e.val, nil
	}

	mount, rel, _ := strings.Cut(secretPath, "/")
	if rel == "" {
		return "", fmt.Errorf("vault: %q has no path below the mount", secretPath)
	}
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", secretPath, err)
	}
	if sec == nil || sec.Data == nil {
		return "", fmt.Errorf("vault: read %s: empty secret", secretPath)
	}
	val, ok := sec.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: %s has no string key %q", secretPath, key)
	}

	if ttl > 0 {
		c.mu.Lock()
		c.cache[ref] = entry{val: val, exp: time.Now().Add(ttl)}
		c.mu.Unlock()
	}
	c.log.Debugw("vault secret read", "path", secretPath, "key", key)
	return val, nil
}
