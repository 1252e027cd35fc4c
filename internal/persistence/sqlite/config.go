// Package sqlite stores catalog snapshots in a single SQLite file using the
// pure Go modernc driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// Config holds the connection parameters applied to every pooled connection.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
	ReadOnly     bool
}

// DefaultConfig suits a snapshot that is written once per cycle and then
// read by many goroutines.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 8,
	}
}

func dsn(path string, cfg Config) string {
	// modernc applies _pragma parameters to each new connection in the pool.
	if cfg.ReadOnly {
		return fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, cfg.BusyTimeout.Milliseconds())
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, cfg.BusyTimeout.Milliseconds())
}

// Open returns a pinged connection pool for path.
func Open(path string, cfg Config) (*sql.DB, error) {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	db, err := sql.Open("sqlite", dsn(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}
