package exporter

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"salescli/internal/analytics"
)

// SQLiteStore persists run metadata and aggregate rows to a local SQLite
// file as an export artifact. It is write-only output: aggregates are never
// read back into the pipeline.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the store at dbPath
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			data_file TEXT,
			rows_in INTEGER,
			rows_out INTEGER,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS aggregate_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			dimension TEXT,
			group_key TEXT,
			total_sales REAL,
			total_profit REAL,
			order_count INTEGER,
			position INTEGER
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun records one pipeline run
func (s *SQLiteStore) SaveRun(runID, dataFile string, rowsIn, rowsOut int) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, data_file, rows_in, rows_out, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, dataFile, rowsIn, rowsOut, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveAggregate writes every group of an aggregate under a run, preserving
// the aggregate's ordering via the position column.
func (s *SQLiteStore) SaveAggregate(runID string, agg *analytics.Aggregate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO aggregate_rows (run_id, dimension, group_key, total_sales, total_profit, order_count, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range agg.Groups {
		if _, err := stmt.Exec(runID, agg.Dimension, g.Key, g.TotalSales, g.TotalProfit, g.OrderCount, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert group %q: %w", g.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("Saved aggregate to store",
		slog.String("run_id", runID),
		slog.String("dimension", agg.Dimension),
		slog.Int("groups", len(agg.Groups)))
	return nil
}
