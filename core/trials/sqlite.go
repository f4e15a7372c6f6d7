package trials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists trial records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps in-memory databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS trials (
        run_id TEXT NOT NULL,
        trial INTEGER NOT NULL,
        ts INTEGER NOT NULL,
        offline_cost REAL,
        online_cost REAL,
        competitive_ratio REAL,
        normalized_ratio REAL,
        record TEXT NOT NULL,
        PRIMARY KEY (run_id, trial)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts the record, replacing an earlier copy of the same trial.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO trials
            (run_id, trial, ts, offline_cost, online_cost, competitive_ratio, normalized_ratio, record)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Trial.Index, rec.Timestamp.UnixNano(),
		rec.Trial.OfflineCost, rec.Trial.OnlineCost,
		nullable(rec.Trial.CompetitiveRatio), nullable(rec.Trial.NormalizedRatio),
		string(b))
	return err
}

// Query returns records matching q ordered by time then trial index.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record FROM trials WHERE 1=1`
	if q.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, q.RunID)
	}
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	query += ` ORDER BY ts, trial`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
