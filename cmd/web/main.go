// cmd/web/main.go
//
// Record editor validation service: HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (.env → conf/global.yaml → RECORDEDITOR_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve the database password (literal or vault:<path>#<key>) and
//     open the record store.
//
//  4. Build the capability environment:
//
//     • Records   – store.Store, uncached (duplicates may appear any time)
//     • Journals  – store.Store behind the LRU + singleflight decorator
//     • Fetcher   – retrying HTTP client for URL and DOI probes
//
//  5. Select the enabled rules from the catalog and check them against
//     the environment; a misconfigured rule list aborts startup.
//
//  6. Assemble the pipeline: JSON-Schema stage (optional) → rule stage.
//
//  7. Mount /metrics, /healthz, and every registered component, wrap the
//     router with request-id, access-log, recoverer, security headers,
//     and optionally ForceHTTPS, then serve until SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/recordeditor/components/editor"
	"github.com/yanizio/recordeditor/internal/component"
	"github.com/yanizio/recordeditor/internal/config"
	"github.com/yanizio/recordeditor/internal/database"
	"github.com/yanizio/recordeditor/internal/fetch"
	"github.com/yanizio/recordeditor/internal/logger"
	"github.com/yanizio/recordeditor/internal/lookup"
	"github.com/yanizio/recordeditor/internal/middleware"
	"github.com/yanizio/recordeditor/internal/requestinfo"
	"github.com/yanizio/recordeditor/internal/schema"
	"github.com/yanizio/recordeditor/internal/server"
	"github.com/yanizio/recordeditor/internal/store"
	"github.com/yanizio/recordeditor/internal/validation"
	"github.com/yanizio/recordeditor/internal/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("recordeditor: %v", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Configuration and logger ────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logOut, err := logger.New(cfg.Paths.Root, logger.IsTTY(), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 2.  Record store ────────────────────────────────────────────────
	//
	var secrets config.SecretSource
	if cfg.Database.UsesVault() {
		vc, err := vault.New(ctx, logOut.Named("vault"))
		if err != nil {
			return err
		}
		secrets = vc
	}
	dsn, err := cfg.Database.ResolveDSN(ctx, secrets)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database.Driver, dsn, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := store.New(db)
	if err != nil {
		return err
	}
	logOut.Infow("record store online", "driver", cfg.Database.Driver)

	//
	// ── 3.  Capabilities and rule stage ─────────────────────────────────
	//
	env := validation.Env{
		Records:     st,
		Fetcher:     fetch.New(fetch.Options{Timeout: cfg.Fetch.Timeout, Retries: cfg.Fetch.Retries}),
		DOIResolver: cfg.Fetch.DOIResolver,
	}
	if n := cfg.Lookup.JournalCacheSize; n > 0 {
		env.Journals = lookup.NewCached(st, n, cfg.Lookup.JournalCacheTTL)
	}

	catalog, err := validation.NewCatalog(validation.Options{DocumentTypes: cfg.Rules.DocumentTypes})
	if err != nil {
		return err
	}
	rules, err := catalog.Select(cfg.Rules.Enabled)
	if err != nil {
		return err
	}
	rv, err := validation.New(rules, env, validation.WithLogger(logOut.Desugar().Named("rules")))
	if err != nil {
		return err
	}

	//
	// ── 4.  Pipeline ────────────────────────────────────────────────────
	//
	pipe := validation.Pipeline{StopOnErrors: cfg.Schema.StopOnErrors}
	if cfg.Schema.Path != "" {
		sv, err := schema.Load(cfg.Schema.Path)
		if err != nil {
			return err
		}
		pipe.Stages = append(pipe.Stages, validation.NamedStage{Name: "schema", Stage: sv})
	}
	pipe.Stages = append(pipe.Stages, validation.NamedStage{Name: "rules", Stage: rv})
	logOut.Infow("validation pipeline ready", "stages", len(pipe.Stages), "rules", len(rules))

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	geo, err := requestinfo.OpenGeo(cfg.HTTP.GeoIPDB)
	if err != nil {
		return err
	}
	defer geo.Close()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog(logOut.Named("http"), geo))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			zap.S().Warnw("health check failed", "err", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})

	component.Register(editor.New(pipe, st, rv.Rules(), logOut.Named("editor")))
	logOut.Infow("components mounted", "names", component.Mount(r))

	var h http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		h = middleware.ForceHTTPS(h)
	}

	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, h), logOut)
}
