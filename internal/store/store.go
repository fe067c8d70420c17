// Package store persists per-tick snapshots and decisions in SQLite so runs
// can be inspected and replayed offline.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"tidebot/internal/exchange"
)

// TickStore handles persistent storage of tick traces.
type TickStore struct {
	db *sql.DB
}

// Row is one recorded tick: the snapshot the engine saw and what it decided.
type Row struct {
	ID          int64
	RunID       string
	Timestamp   int64
	Snapshot    *exchange.Snapshot
	Orders      map[string][]exchange.Order
	Conversions int
	TraderData  string
}

// NewTickStore opens (or creates) the store at dbPath with WAL mode enabled.
func NewTickStore(dbPath string) (*TickStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS ticks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			snapshot BLOB NOT NULL,
			orders BLOB NOT NULL,
			conversions INTEGER NOT NULL,
			trader_data TEXT NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create ticks table: %w", err)
	}

	return &TickStore{db: db}, nil
}

// SaveTick stores one tick trace.
func (s *TickStore) SaveTick(ctx context.Context, runID string, snap *exchange.Snapshot, orders map[string][]exchange.Order, conversions int, traderData string) error {
	snapPayload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	ordersPayload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO ticks (run_id, ts, snapshot, orders, conversions, trader_data) VALUES (?, ?, ?, ?, ?, ?)",
		runID, snap.Timestamp, snapPayload, ordersPayload, conversions, traderData,
	)
	if err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}
	return nil
}

// LoadTicks loads every stored tick in insertion order, optionally filtered
// to one run id (empty string loads all runs).
func (s *TickStore) LoadTicks(ctx context.Context, runID string) ([]Row, error) {
	query := "SELECT id, run_id, ts, snapshot, orders, conversions, trader_data FROM ticks"
	args := []any{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		var snapPayload, ordersPayload []byte
		if err := rows.Scan(&row.ID, &row.RunID, &row.Timestamp, &snapPayload, &ordersPayload, &row.Conversions, &row.TraderData); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		row.Snapshot = &exchange.Snapshot{}
		if err := json.Unmarshal(snapPayload, row.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %d: %w", row.ID, err)
		}
		if err := json.Unmarshal(ordersPayload, &row.Orders); err != nil {
			return nil, fmt.Errorf("unmarshal orders %d: %w", row.ID, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *TickStore) Close() error {
	return s.db.Close()
}
