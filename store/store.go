// Package store persists bridge designs and analysis results in SQLite.
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

	_ "github.com/mattn/go-sqlite3"

	"github.com/leohan123123/bridge-3D-AI1/analysis"
	"github.com/leohan123123/bridge-3D-AI1/design"
)

// ErrNotFound is returned when a requested design or analysis id does
// not exist.
var ErrNotFound = errors.New("store: not found")

// DesignSummary is the lightweight history row returned by ListDesigns.
type DesignSummary struct {
	DesignID    string  `json:"design_id"`
	BridgeType  string  `json:"bridge_type"`
	TotalSpanM  float64 `json:"total_span_m"`
	BridgeWidth float64 `json:"bridge_width"`
	CreatedAt   string  `json:"created_at"`
}

// Store wraps the SQLite database for all persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Design operations ---

// SaveDesign persists a synthesized design. Designs are immutable:
// saving an existing id is an error.
func (s *Store) SaveDesign(ctx context.Context, d design.BridgeDesign) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding design: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO designs (id, bridge_type, total_span_m, bridge_width_m, payload)
		VALUES (?, ?, ?, ?, ?)
	`, d.DesignID, d.BridgeType, d.TotalSpan(), d.BridgeWidth, string(payload))
	if err != nil {
		return fmt.Errorf("inserting design %s: %w", d.DesignID, err)
	}
	return nil
}

// GetDesign retrieves a design by id.
func (s *Store) GetDesign(ctx context.Context, id string) (design.BridgeDesign, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM designs WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return design.BridgeDesign{}, ErrNotFound
	}
	if err != nil {
		return design.BridgeDesign{}, err
	}

	var d design.BridgeDesign
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return design.BridgeDesign{}, fmt.Errorf("decoding design %s: %w", id, err)
	}
	return d, nil
}

// ListDesigns returns design summaries, newest first, up to limit.
func (s *Store) ListDesigns(ctx context.Context, limit int) ([]DesignSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bridge_type, total_span_m, bridge_width_m, created_at
		FROM designs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []DesignSummary
	for rows.Next() {
		var d DesignSummary
		if err := rows.Scan(&d.DesignID, &d.BridgeType, &d.TotalSpanM, &d.BridgeWidth, &d.CreatedAt); err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

// --- Analysis operations ---

// SaveAnalysis persists an analysis result under the given id so a
// later design request can reference it without re-running providers.
func (s *Store) SaveAnalysis(ctx context.Context, id, fingerprint string, res analysis.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	failed := 0
	if res.Failed {
		failed = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, fingerprint, provider, failed, payload)
		VALUES (?, ?, ?, ?, ?)
	`, id, fingerprint, res.Provider, failed, string(payload))
	if err != nil {
		return fmt.Errorf("inserting analysis %s: %w", id, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis result by id.
func (s *Store) GetAnalysis(ctx context.Context, id string) (analysis.Result, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM analyses WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return analysis.Result{}, ErrNotFound
	}
	if err != nil {
		return analysis.Result{}, err
	}

	var res analysis.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return analysis.Result{}, fmt.Errorf("decoding analysis %s: %w", id, err)
	}
	return res, nil
}
