// internal/config/model.go
//
// Typed configuration model for the record editor validation service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                                 – dotenv values,
//   - `conf/global.yaml`                              – primary static file,
//   - `RECORDEDITOR_`-prefixed environment overrides  – highest precedence.
//
// A `database.password` of the form `vault:<mount>/<path>#<key>` is
// resolved through the Vault client by Database.ResolveDSN, after unmarshalling
// and before the DSN is built, so the password never lives in flat files.
//
// Validation happens immediately after unmarshal; the service fails fast
// if required fields are missing.  Unknown rule names are rejected later by
// the rule catalog, still at startup.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Durations are written as Go duration strings ("750ms", "6h").
package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.  GeoIPDB optionally points at a
// GeoLite2 Country database used to tag access-log lines.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	GeoIPDB    string `koanf:"geoip_db"`
}

//
// Log section
//

// Log selects the minimum zap level ("debug", "info", "warn", "error").
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Database section
//

// Database describes the record store used for duplicate and journal
// lookups.  `DSN` may contain one `%s` verb that receives `Password`.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mysql pgx"`
	DSN      string `koanf:"dsn"      validate:"required,dsn_verb"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Lookup section
//

// Lookup tunes the canonical-journal cache.  A zero size disables it.
type Lookup struct {
	JournalCacheSize int           `koanf:"journal_cache_size" validate:"gte=0"`
	JournalCacheTTL  time.Duration `koanf:"journal_cache_ttl"  validate:"gte=0"`
}

//
// Fetch section
//

// Fetch tunes the URL/DOI reachability client.
type Fetch struct {
	Timeout     time.Duration `koanf:"timeout"      validate:"gte=0"`
	Retries     int           `koanf:"retries"      validate:"gte=-1"`
	DOIResolver string        `koanf:"doi_resolver" validate:"omitempty,contains=%s"`
}

//
// Rules section
//

// Rules selects and tunes the business-rule catalog.  An empty Enabled
// list runs the default catalog.
type Rules struct {
	Enabled       []string            `koanf:"enabled"        validate:"dive,required"`
	DocumentTypes map[string][]string `koanf:"document_types" validate:"dive,min=1"`
}

//
// Schema section
//

// Schema points at the JSON Schema for the structural stage.  An empty
// Path disables the stage.
type Schema struct {
	Path         string `koanf:"path"`
	StopOnErrors bool   `koanf:"stop_on_errors"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // RECORDEDITOR_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Log      Log      `koanf:"log"`
	Database Database `koanf:"database"`
	Lookup   Lookup   `koanf:"lookup"`
	Fetch    Fetch    `koanf:"fetch"`
	Rules    Rules    `koanf:"rules"`
	Schema   Schema   `koanf:"schema"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
