// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportConnection is one persisted connection in an export (R4.2).
type ExportConnection struct {
	ID      string   `json:"id" yaml:"id"`
	Order   int      `json:"order" yaml:"order"`
	Tier    string   `json:"tier" yaml:"tier"`
	Score   float64  `json:"score" yaml:"score"`
	Theme   string   `json:"theme,omitempty" yaml:"theme,omitempty"`
	Members []string `json:"members" yaml:"members"`
	Sources []string `json:"sources" yaml:"sources"`
	Domains []string `json:"domains" yaml:"domains"`
}

// ExportCoverage is one persisted source-coverage row in an export.
type ExportCoverage struct {
	Source    string `json:"source" yaml:"source"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	Points    int    `json:"points" yaml:"points"`
	LatencyMS int64  `json:"latency_ms" yaml:"latency_ms"`
}

// ExportRun is the full persisted view of one run.
type ExportRun struct {
	RunSummary         `yaml:",inline"`
	ClusteringDegraded bool               `json:"clustering_degraded" yaml:"clustering_degraded"`
	ConnectionList     []ExportConnection `json:"connection_list" yaml:"connection_list"`
	Coverage           []ExportCoverage   `json:"coverage" yaml:"coverage"`
}

// GetRun loads one saved run with its connections and coverage.
func (s *Store) GetRun(ctx context.Context, runID string) (*ExportRun, error) {
	var (
		run                ExportRun
		degraded, clusters int
		stamp              string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, business, classification, degraded, clustering_degraded, datapoints, eq_score, generated_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Business, &run.Classification, &degraded, &clusters,
		&run.DataPoints, &run.EQScore, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	run.Degraded = degraded != 0
	run.ClusteringDegraded = clusters != 0
	if t, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
		run.GeneratedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conn_order, tier, score, theme, members, sources, domains
		 FROM connections WHERE run_id = ?
		 ORDER BY score DESC, id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c                         ExportConnection
			members, sources, domains string
		)
		if err := rows.Scan(&c.ID, &c.Order, &c.Tier, &c.Score, &c.Theme,
			&members, &sources, &domains); err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		json.Unmarshal([]byte(members), &c.Members)
		json.Unmarshal([]byte(sources), &c.Sources)
		json.Unmarshal([]byte(domains), &c.Domains)
		run.ConnectionList = append(run.ConnectionList, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	run.Connections = len(run.ConnectionList)

	covRows, err := s.db.QueryContext(ctx,
		`SELECT source, status, error, points, latency_ms
		 FROM coverage WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying coverage: %w", err)
	}
	defer covRows.Close()
	for covRows.Next() {
		var cov ExportCoverage
		if err := covRows.Scan(&cov.Source, &cov.Status, &cov.Error,
			&cov.Points, &cov.LatencyMS); err != nil {
			return nil, fmt.Errorf("scanning coverage: %w", err)
		}
		run.Coverage = append(run.Coverage, cov)
	}
	return &run, covRows.Err()
}

// ExportYAML writes one saved run to dir/run-<id>.yaml and returns the
// written path (R4.1).
func (s *Store) ExportYAML(ctx context.Context, runID string) (string, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "run-"+runID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
