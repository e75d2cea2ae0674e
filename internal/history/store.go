package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/licwatch/licwatch-cli/internal/license"
)

const schema = `
CREATE TABLE IF NOT EXISTS license_usage (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id    TEXT NOT NULL,
    captured_at TEXT NOT NULL,
    feature     TEXT NOT NULL,
    used        INTEGER,
    unused      INTEGER,
    total       INTEGER,
    exit_code   INTEGER NOT NULL DEFAULT 0,
    stderr      TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_license_usage_feature ON license_usage(feature);
CREATE INDEX IF NOT EXISTS idx_license_usage_batch ON license_usage(batch_id);
`

// Store provides SQLite-backed storage for snapshot history. Unknown counts
// are stored as NULL, mirroring the CSV log's empty cells.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the history database at dbPath and runs
// migrations.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// Enable WAL mode so ad-hoc reads don't block the monitor's writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// InsertBatch stores one snapshot batch in a single transaction.
func (s *Store) InsertBatch(records []license.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO license_usage (
			batch_id, captured_at, feature, used, unused, total, exit_code, stderr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.BatchID, r.Timestamp.UTC().Format(time.RFC3339), r.Feature,
			nullCount(r.Used), nullCount(r.Unused), nullCount(r.Total),
			r.ExitCode, r.Stderr,
		); err != nil {
			return fmt.Errorf("insert snapshot feature=%s: %w", r.Feature, err)
		}
	}

	return tx.Commit()
}

// RowCount returns the total number of stored snapshots.
func (s *Store) RowCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM license_usage").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// LastBatch returns the records of the most recently captured batch, in
// insertion order. Returns nil when the store is empty.
func (s *Store) LastBatch() ([]license.UsageRecord, error) {
	var batchID string
	err := s.db.QueryRow(
		"SELECT batch_id FROM license_usage ORDER BY id DESC LIMIT 1").Scan(&batchID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find last batch: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT captured_at, feature, used, unused, total, exit_code, stderr
		FROM license_usage WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query last batch: %w", err)
	}
	defer rows.Close()

	var records []license.UsageRecord
	for rows.Next() {
		var (
			r                   license.UsageRecord
			capturedAt          string
			used, unused, total sql.NullInt64
		)
		if err := rows.Scan(&capturedAt, &r.Feature, &used, &unused, &total, &r.ExitCode, &r.Stderr); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		r.BatchID = batchID
		if t, err := time.Parse(time.RFC3339, capturedAt); err == nil {
			r.Timestamp = t
		}
		r.Used = countPtr(used)
		r.Unused = countPtr(unused)
		r.Total = countPtr(total)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullCount(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func countPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
