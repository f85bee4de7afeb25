// Package database centralises sqlx connection helpers for the record
// store.  Two drivers are linked in: go-sql-driver/mysql ("mysql") and the
// pgx stdlib adapter ("pgx").  The query dialect follows the driver name;
// see store.DialectFor.
//
// Open Pings the database before returning so callers can fail fast during
// bootstrap.  Callers should Close() the returned *sqlx.DB when no longer
// needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Pool defaults used when a size is zero.
const (
	DefaultMaxOpen = 15
	DefaultMaxIdle = 5
	connLifetime   = 30 * time.Minute
	pingTimeout    = 5 * time.Second
)

// Open returns a *sqlx.DB for driver with the given pool sizes and a
// 30-minute connection lifetime.
func Open(ctx context.Context, driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case "mysql", "pgx":
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}
	if maxOpen == 0 {
		maxOpen = DefaultMaxOpen
	}
	if maxIdle == 0 {
		maxIdle = DefaultMaxIdle
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connLifetime)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}
	return db, nil
}
