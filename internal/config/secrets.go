// internal/config/secrets.go
//
// Database credential resolution.
//
// Context
// -------
// `database.password` is either a literal or a Vault reference of the form
// `vault:<mount>/<path>#<key>`.  ResolveDSN looks the reference up through
// a SecretSource (normally *vault.Client) and splices the password into the
// DSN's `%s` verb.  A DSN without a verb is returned unchanged.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// VaultScheme prefixes a password that lives in Vault.
const VaultScheme = "vault:"

// secretTTL bounds how long the Vault client caches the password.
const secretTTL = 10 * time.Minute

// ErrNoSecretSource is returned when the password references Vault but no
// SecretSource was supplied.
var ErrNoSecretSource = errors.New("config: password references vault but no secret source configured")

// SecretSource reads one key from a KV secret.
type SecretSource interface {
	GetKV(ctx context.Context, path, key string, ttl time.Duration) (string, error)
}

// UsesVault reports whether the password must be resolved through Vault.
func (d Database) UsesVault() bool {
	return strings.HasPrefix(d.Password, VaultScheme)
}

// ResolveDSN returns the DSN with the password filled in.  src may be nil
// when the password is a literal.
func (d Database) ResolveDSN(ctx context.Context, src SecretSource) (string, error) {
	pw := d.Password
	if d.UsesVault() {
		if src == nil {
			return "", ErrNoSecretSource
		}
		path, key, err := splitSecretRef(strings.TrimPrefix(pw, VaultScheme))
		if err != nil {
			return "", err
		}
		pw, err = src.GetKV(ctx, path, key, secretTTL)
		if err != nil {
			return "", fmt.Errorf("config: database password: %w", err)
		}
	}

	if !strings.Contains(d.DSN, "%s") {
		return d.DSN, nil
	}
	return fmt.Sprintf(d.DSN, pw), nil
}

// splitSecretRef splits "secret/recordeditor#db_password" into path and key.
func splitSecretRef(ref string) (path, key string, err error) {
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("config: malformed vault reference %q, want <path>#<key>", ref)
	}
	return ref[:i], ref[i+1:], nil
}
