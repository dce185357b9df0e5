// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists intelligence run reports to SQLite.
// Implements: prd008-results-store (R1-R4);
//
//	docs/ARCHITECTURE.md § Results Store.
//
// The core pipeline never touches this package: persistence is the
// caller's choice, wired in by the CLI behind a flag.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/intel-engine/internal/intel"
	"github.com/pdiddy/intel-engine/pkg/types"
)

const dbFile = "intel.db"

// Store manages the results SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the results database at cfg.Dir/intel.db,
// creating the schema if it does not exist (R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("results store directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			business TEXT NOT NULL,
			classification TEXT,
			degraded INTEGER NOT NULL,
			clustering_degraded INTEGER NOT NULL,
			datapoints INTEGER NOT NULL,
			eq_score REAL,
			generated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS connections (
			id TEXT NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			conn_order INTEGER NOT NULL,
			tier TEXT NOT NULL,
			score REAL NOT NULL,
			theme TEXT,
			members TEXT,
			sources TEXT,
			domains TEXT,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_connections_run ON connections(run_id)`,
		`CREATE TABLE IF NOT EXISTS coverage (
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			points INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, source)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveReport writes one run with its connections and source coverage in a
// single transaction (R2.1, R2.2).
func (s *Store) SaveReport(ctx context.Context, report *intel.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, business, classification, degraded, clustering_degraded, datapoints, eq_score, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Business, report.Classification,
		boolInt(report.Degraded), boolInt(report.ClusteringDegraded),
		report.DataPointCount, report.EQProfile.Score,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, c := range report.Connections {
		membersJSON, _ := json.Marshal(c.MemberIDs)
		sourcesJSON, _ := json.Marshal(c.Sources)
		domainsJSON, _ := json.Marshal(c.Domains)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO connections (id, run_id, conn_order, tier, score, theme, members, sources, domains)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, report.RunID, c.Order, string(c.Tier), c.Score, c.Theme,
			string(membersJSON), string(sourcesJSON), string(domainsJSON))
		if err != nil {
			return fmt.Errorf("inserting connection %s: %w", c.ID, err)
		}
	}

	for _, r := range report.SourceCoverage {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO coverage (run_id, source, status, error, points, latency_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			report.RunID, r.Source, string(r.Status), r.Err,
			len(r.Points), r.Latency.Milliseconds())
		if err != nil {
			return fmt.Errorf("inserting coverage for %s: %w", r.Source, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run listing (R3.1).
type RunSummary struct {
	ID             string    `json:"id" yaml:"id"`
	Business       string    `json:"business" yaml:"business"`
	Classification string    `json:"classification,omitempty" yaml:"classification,omitempty"`
	Degraded       bool      `json:"degraded" yaml:"degraded"`
	DataPoints     int       `json:"datapoints" yaml:"datapoints"`
	Connections    int       `json:"connections" yaml:"connections"`
	EQScore        float64   `json:"eq_score" yaml:"eq_score"`
	GeneratedAt    time.Time `json:"generated_at" yaml:"generated_at"`
}

// ListRuns returns saved runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.business, r.classification, r.degraded, r.datapoints, r.eq_score, r.generated_at,
		        (SELECT count(*) FROM connections c WHERE c.run_id = r.id)
		 FROM runs r
		 ORDER BY r.generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary  RunSummary
			degraded int
			stamp    string
		)
		if err := rows.Scan(&summary.ID, &summary.Business, &summary.Classification,
			&degraded, &summary.DataPoints, &summary.EQScore, &stamp, &summary.Connections); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		summary.Degraded = degraded != 0
		if t, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
			summary.GeneratedAt = t
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
