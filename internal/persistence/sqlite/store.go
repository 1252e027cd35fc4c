// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/rights"
)

const schemaVersion = 1

// ErrSnapshotMissing is returned by LoadSnapshot when nothing was saved yet.
var ErrSnapshotMissing = errors.New("sqlite: no snapshot stored")

// Store persists one catalog snapshot. Saving replaces the previous one.
type Store struct {
	db *sql.DB
}

// NewStore opens path and applies the schema.
func NewStore(path string, cfg Config) (*Store, error) {
	db, err := Open(path, cfg)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if cfg.ReadOnly {
		return s, nil
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate %s: %w", path, err)
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var current int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		now_ms INTEGER NOT NULL,
		saved_at_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		video_id INTEGER NOT NULL,
		country TEXT NOT NULL,
		contract_id INTEGER NOT NULL,
		body_json TEXT NOT NULL,
		PRIMARY KEY (video_id, country, contract_id)
	);

	CREATE TABLE IF NOT EXISTS packages (
		video_id INTEGER NOT NULL,
		package_id INTEGER NOT NULL,
		body_json TEXT NOT NULL,
		PRIMARY KEY (video_id, package_id)
	);

	CREATE TABLE IF NOT EXISTS video_general (
		video_id INTEGER PRIMARY KEY,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS statuses (
		video_id INTEGER NOT NULL,
		country TEXT NOT NULL,
		body_json TEXT NOT NULL,
		PRIMARY KEY (video_id, country)
	);

	CREATE TABLE IF NOT EXISTS shows (
		show_id INTEGER PRIMARY KEY,
		body_json TEXT NOT NULL
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

var snapshotTables = []string{"snapshot_meta", "contracts", "packages", "video_general", "statuses", "shows"}

// SaveSnapshot replaces the stored snapshot with doc in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, doc catalog.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range snapshotTables {
		// #nosec G202 -- table names are package constants
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, now_ms, saved_at_ms) VALUES (1, ?, ?)`,
		doc.NowMillis, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("sqlite: save meta: %w", err)
	}

	for _, c := range doc.Contracts {
		if err := insertJSON(ctx, tx,
			`INSERT INTO contracts (video_id, country, contract_id, body_json) VALUES (?, ?, ?, ?)`,
			c.Contract, c.VideoID, c.Country, c.ContractID); err != nil {
			return fmt.Errorf("sqlite: save contract %d: %w", c.ContractID, err)
		}
	}
	for _, p := range doc.Packages {
		if err := insertJSON(ctx, tx,
			`INSERT INTO packages (video_id, package_id, body_json) VALUES (?, ?, ?)`,
			p.Package, p.VideoID, p.ID); err != nil {
			return fmt.Errorf("sqlite: save package %d: %w", p.ID, err)
		}
	}
	for _, g := range doc.General {
		if err := insertJSON(ctx, tx,
			`INSERT INTO video_general (video_id, body_json) VALUES (?, ?)`,
			g, g.VideoID); err != nil {
			return fmt.Errorf("sqlite: save general %d: %w", g.VideoID, err)
		}
	}
	for _, st := range doc.Statuses {
		if err := insertJSON(ctx, tx,
			`INSERT INTO statuses (video_id, country, body_json) VALUES (?, ?, ?)`,
			st, st.VideoID, st.Country); err != nil {
			return fmt.Errorf("sqlite: save status %d/%s: %w", st.VideoID, st.Country, err)
		}
	}
	for _, sh := range doc.Shows {
		if err := insertJSON(ctx, tx,
			`INSERT INTO shows (show_id, body_json) VALUES (?, ?)`,
			sh, sh.ID); err != nil {
			return fmt.Errorf("sqlite: save show %d: %w", sh.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit save: %w", err)
	}

	logger := log.WithComponent("sqlite")
	logger.Info().
		Int64("now_ms", doc.NowMillis).
		Int("contracts", len(doc.Contracts)).
		Int("packages", len(doc.Packages)).
		Int("statuses", len(doc.Statuses)).
		Msg("snapshot saved")
	return nil
}

// insertJSON appends the JSON encoding of body as the last bind argument.
func insertJSON(ctx context.Context, tx *sql.Tx, query string, body any, keys ...any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	args := append(keys, string(raw))
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// LoadSnapshot reads the stored snapshot into a catalog document.
func (s *Store) LoadSnapshot(ctx context.Context) (catalog.Document, error) {
	var doc catalog.Document
	err := s.db.QueryRowContext(ctx, `SELECT now_ms FROM snapshot_meta WHERE id = 1`).Scan(&doc.NowMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrSnapshotMissing
	}
	if err != nil {
		return doc, fmt.Errorf("sqlite: load meta: %w", err)
	}

	err = scanJSON(ctx, s.db, `SELECT video_id, country, body_json FROM contracts ORDER BY video_id, country, contract_id`,
		func(rows *sql.Rows) error {
			var rec catalog.ContractRecord
			var body string
			if err := rows.Scan(&rec.VideoID, &rec.Country, &body); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(body), &rec.Contract); err != nil {
				return err
			}
			doc.Contracts = append(doc.Contracts, rec)
			return nil
		})
	if err != nil {
		return doc, fmt.Errorf("sqlite: load contracts: %w", err)
	}

	err = scanJSON(ctx, s.db, `SELECT video_id, body_json FROM packages ORDER BY video_id, package_id`,
		func(rows *sql.Rows) error {
			var rec catalog.PackageRecord
			var body string
			if err := rows.Scan(&rec.VideoID, &body); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(body), &rec.Package); err != nil {
				return err
			}
			doc.Packages = append(doc.Packages, rec)
			return nil
		})
	if err != nil {
		return doc, fmt.Errorf("sqlite: load packages: %w", err)
	}

	err = scanJSON(ctx, s.db, `SELECT body_json FROM video_general ORDER BY video_id`,
		func(rows *sql.Rows) error {
			var g rights.General
			if err := scanBody(rows, &g); err != nil {
				return err
			}
			doc.General = append(doc.General, g)
			return nil
		})
	if err != nil {
		return doc, fmt.Errorf("sqlite: load general: %w", err)
	}

	err = scanJSON(ctx, s.db, `SELECT body_json FROM statuses ORDER BY video_id, country`,
		func(rows *sql.Rows) error {
			var st rights.Status
			if err := scanBody(rows, &st); err != nil {
				return err
			}
			doc.Statuses = append(doc.Statuses, st)
			return nil
		})
	if err != nil {
		return doc, fmt.Errorf("sqlite: load statuses: %w", err)
	}

	err = scanJSON(ctx, s.db, `SELECT body_json FROM shows ORDER BY show_id`,
		func(rows *sql.Rows) error {
			var sh catalog.Show
			if err := scanBody(rows, &sh); err != nil {
				return err
			}
			doc.Shows = append(doc.Shows, sh)
			return nil
		})
	if err != nil {
		return doc, fmt.Errorf("sqlite: load shows: %w", err)
	}

	return doc, nil
}

func scanBody(rows *sql.Rows, dst any) error {
	var body string
	if err := rows.Scan(&body); err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), dst)
}

func scanJSON(ctx context.Context, db *sql.DB, query string, each func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadCatalog opens a read-only store at path and builds the snapshot.
func LoadCatalog(ctx context.Context, path string) (*catalog.Snapshot, error) {
	cfg := DefaultConfig()
	cfg.ReadOnly = true
	store, err := NewStore(path, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	doc, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Snapshot()
}
