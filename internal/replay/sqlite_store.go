package replay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const createReplaysTable = `CREATE TABLE IF NOT EXISTS replays (
	id     TEXT PRIMARY KEY,
	width  INTEGER NOT NULL,
	height INTEGER NOT NULL,
	turns  INTEGER NOT NULL,
	data   BLOB NOT NULL
)`

// Summary is a replay listing row.
type Summary struct {
	ID     string
	Width  int
	Height int
	Turns  int
}

// SQLiteStore keeps encoded replays in a single table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		createReplaysTable,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces the replay row
func (s *SQLiteStore) Save(ctx context.Context, r *Replay) error {
	data, err := marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO replays (id, width, height, turns, data) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET width = excluded.width, height = excluded.height,
		 turns = excluded.turns, data = excluded.data`,
		r.ID, r.Width, r.Height, r.Turns(), data)
	if err != nil {
		return fmt.Errorf("save replay %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Replay, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM replays WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", id, err)
	}
	return unmarshal(data)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM replays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete replay %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	return nil
}

// List returns every stored replay ordered by ID.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, width, height, turns FROM replays ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Width, &sum.Height, &sum.Turns); err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
