// Package store keeps a sqlite ledger of completed dispatches.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

//go:embed pragmas.sql
var pragmasSQL string

var ErrNotFound = errors.New("dispatch not found")

// Dispatch is one assignment handed to a driver.
type Dispatch struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"` // "match" or "pool"
	DriverID    string    `json:"driver_id"`
	RiderIDs    []string  `json:"rider_ids"`
	Destination string    `json:"destination,omitempty"`
	Path        []string  `json:"path"`
	Cost        float64   `json:"cost"`
	CreatedAt   time.Time `json:"created_at"`
}

// DB wraps the sqlite connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the ledger at dbPath.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	for _, pragma := range strings.Split(pragmasSQL, "\n") {
		pragma = strings.TrimSpace(pragma)
		if pragma == "" || strings.HasPrefix(pragma, "--") {
			continue
		}
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Record stores d, filling in ID and CreatedAt when they are unset.
func (db *DB) Record(ctx context.Context, d Dispatch) (Dispatch, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	riders, err := json.Marshal(d.RiderIDs)
	if err != nil {
		return Dispatch{}, err
	}
	path, err := json.Marshal(d.Path)
	if err != nil {
		return Dispatch{}, err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO dispatches (id, kind, driver_id, rider_ids, destination, path, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Kind, d.DriverID, string(riders), d.Destination, string(path), d.Cost, d.CreatedAt.UnixMilli())
	if err != nil {
		return Dispatch{}, fmt.Errorf("inserting dispatch: %w", err)
	}
	return d, nil
}

const selectDispatch = `SELECT id, kind, driver_id, rider_ids, destination, path, cost, created_at FROM dispatches`

// Get loads one dispatch by id.
func (db *DB) Get(ctx context.Context, id string) (Dispatch, error) {
	row := db.conn.QueryRowContext(ctx, selectDispatch+` WHERE id = ?`, id)
	d, err := scanDispatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dispatch{}, ErrNotFound
	}
	return d, err
}

// List returns up to limit dispatches, newest first.
func (db *DB) List(ctx context.Context, limit int) ([]Dispatch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, selectDispatch+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing dispatches: %w", err)
	}
	defer rows.Close()

	out := []Dispatch{}
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDispatch(s scanner) (Dispatch, error) {
	var (
		d             Dispatch
		riders, path  string
		createdAtMill int64
	)
	if err := s.Scan(&d.ID, &d.Kind, &d.DriverID, &riders, &d.Destination, &path, &d.Cost, &createdAtMill); err != nil {
		return Dispatch{}, err
	}
	if err := json.Unmarshal([]byte(riders), &d.RiderIDs); err != nil {
		return Dispatch{}, fmt.Errorf("decoding rider ids: %w", err)
	}
	if err := json.Unmarshal([]byte(path), &d.Path); err != nil {
		return Dispatch{}, fmt.Errorf("decoding path: %w", err)
	}
	d.CreatedAt = time.UnixMilli(createdAtMill)
	return d, nil
}
