package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS delivery_submissions (
        id TEXT PRIMARY KEY,
        ts INTEGER,
        vehicle TEXT,
        resolved INTEGER,
        record TEXT
    );
    CREATE TABLE IF NOT EXISTS delivery_submission_orders (
        submission_id TEXT,
        order_id TEXT
    );
    CREATE INDEX IF NOT EXISTS idx_submission_orders ON delivery_submission_orders(order_id);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record and its order ids in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) (err error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO delivery_submissions (id, ts, vehicle, resolved, record) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixNano(), rec.Vehicle, rec.Resolved, string(b)); err != nil {
		return err
	}
	for _, id := range rec.OrderIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO delivery_submission_orders (submission_id, order_id) VALUES (?, ?)`, rec.ID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns records matching q ordered by time.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record FROM delivery_submissions WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Vehicle != "" {
		query += ` AND vehicle = ?`
		args = append(args, q.Vehicle)
	}
	if q.Resolved != nil {
		query += ` AND resolved = ?`
		args = append(args, *q.Resolved)
	}
	if q.OrderID != "" {
		query += ` AND id IN (SELECT submission_id FROM delivery_submission_orders WHERE order_id = ?)`
		args = append(args, q.OrderID)
	}
	query += ` ORDER BY ts`
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
