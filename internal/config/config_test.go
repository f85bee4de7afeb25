// internal/config/config_test.go
//
// Loader layering, validation, and DSN secret resolution.
//
// Run: go test ./internal/config -v

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleYAML = `
http:
  listen_addr: ":9090"
database:
  driver: mysql
  dsn: "editor:%s@tcp(db:3306)/records"
  password: "vault:secret/recordeditor#db_password"
rules:
  enabled: [author-or-corporate-author, date-present]
  document_types:
    cnum-requires-document-type: [proceedings, conference paper]
schema:
  path: conf/record.json
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv(EnvPrefix+"ROOT", root)
	return root
}

func TestLoadLayers(t *testing.T) {
	root := writeRoot(t, sampleYAML)
	t.Setenv("RECORDEDITOR_FETCH__TIMEOUT", "3s")
	t.Setenv("RECORDEDITOR_DATABASE__MAX_OPEN", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.ListenAddr != ":9090" || cfg.Database.Driver != "mysql" {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Fetch.Timeout != 3*time.Second || cfg.Database.MaxOpen != 4 {
		t.Fatalf("env overlay not applied: timeout=%v max_open=%d", cfg.Fetch.Timeout, cfg.Database.MaxOpen)
	}
	if cfg.Lookup.JournalCacheTTL != 6*time.Hour || cfg.Fetch.DOIResolver != "http://doi.org/%s" {
		t.Fatalf("defaults lost: %+v", cfg.Lookup)
	}
	if diff := cmp.Diff([]string{"author-or-corporate-author", "date-present"}, cfg.Rules.Enabled); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if cfg.Schema.Path != filepath.Join(root, "conf", "record.json") || cfg.Paths.Root != root {
		t.Fatalf("paths not resolved: %+v %+v", cfg.Schema, cfg.Paths)
	}
	if Get() != cfg {
		t.Fatalf("Get should return the last loaded config")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, yaml := range map[string]string{
		"bad driver":  "database: {driver: sqlite, dsn: x}\n",
		"missing dsn": "database: {driver: pgx}\n",
		"two verbs":   "database: {driver: pgx, dsn: \"%s %s\"}\n",
		"bad level":   "database: {driver: pgx, dsn: x}\nlog: {level: loud}\n",
	} {
		t.Run(name, func(t *testing.T) {
			writeRoot(t, yaml)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("RECORDEDITOR_FETCH__DOI_RESOLVER"); got != "fetch.doi_resolver" {
		t.Fatalf("envKey = %q", got)
	}
}

type fakeSecrets struct {
	path, key string
	val       string
	err       error
}

func (f *fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	f.path, f.key = path, key
	return f.val, f.err
}

func TestResolveDSN(t *testing.T) {
	ctx := context.Background()

	lit := Database{DSN: "user:%s@tcp(db)/x", Password: "pw"}
	if got, err := lit.ResolveDSN(ctx, nil); err != nil || got != "user:pw@tcp(db)/x" {
		t.Fatalf("literal: %q %v", got, err)
	}

	src := &fakeSecrets{val: "s3cret"}
	v := Database{DSN: "postgres://u:%s@db/x", Password: "vault:secret/recordeditor#db_password"}
	got, err := v.ResolveDSN(ctx, src)
	if err != nil || got != "postgres://u:s3cret@db/x" {
		t.Fatalf("vault: %q %v", got, err)
	}
	if src.path != "secret/recordeditor" || src.key != "db_password" {
		t.Fatalf("reference parsed as %q#%q", src.path, src.key)
	}

	if _, err := v.ResolveDSN(ctx, nil); !errors.Is(err, ErrNoSecretSource) {
		t.Fatalf("expected ErrNoSecretSource, got %v", err)
	}
	bad := Database{DSN: "x", Password: "vault:no-key"}
	if _, err := bad.ResolveDSN(ctx, src); err == nil {
		t.Fatalf("expected malformed reference error")
	}
	plain := Database{DSN: "file::memory:"}
	if got, _ := plain.ResolveDSN(ctx, nil); got != "file::memory:" {
		t.Fatalf("verb-less DSN changed: %q", got)
	}
}

func TestDSNVerb(t *testing.T) {
	for in, want := range map[string]bool{
		"user:%s@db":   true,
		"no verbs":     true,
		"100%% %s":     true,
		"%s and %s":    false,
		"port %d here": false,
	} {
		if got := dsnVerbOK(in); got != want {
			t.Errorf("dsnVerbOK(%q) = %v, want %v", in, got, want)
		}
	}
}
