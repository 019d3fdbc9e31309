package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"roomload/schedule"
)

type SQLiteStore struct {
	db *sql.DB
}

// ErrRowsNotFound is returned when the store holds no staged rows.
var ErrRowsNotFound = errors.New("no schedule rows stored")

// Source summarizes the rows staged from one input file.
type Source struct {
	File       string
	Rows       int
	ImportedAt time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS schedule_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_file TEXT NOT NULL,
	source_row INTEGER NOT NULL CHECK(source_row >= 2),
	row_values TEXT NOT NULL,
	imported_at TEXT NOT NULL,
	UNIQUE(source_file, source_row)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ReplaceSourceRows stages rows for sourceFile, dropping whatever an earlier
// import of the same file left behind. It returns the number of rows stored.
func (s *SQLiteStore) ReplaceSourceRows(sourceFile string, rows []schedule.Row) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM schedule_rows WHERE source_file = ?;`, sourceFile); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete previous rows for %s: %w", sourceFile, err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO schedule_rows (
	source_file,
	source_row,
	row_values,
	imported_at
) VALUES (?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	importedAt := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, row := range rows {
		encoded, err := json.Marshal(row.Values)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("encode row %d: %w", row.Number, err)
		}
		res, err := stmt.Exec(sourceFile, row.Number, string(encoded), importedAt)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert row %d: %w", row.Number, err)
		}

		affected, err := res.RowsAffected()
		if err == nil && affected > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// ListRows returns every staged row in import order.
func (s *SQLiteStore) ListRows() ([]schedule.Row, error) {
	const query = `
SELECT
	source_row,
	row_values
FROM schedule_rows
ORDER BY id;
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query schedule rows: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.Row, 0, 256)
	for rows.Next() {
		var (
			row     schedule.Row
			encoded string
		)
		if err := rows.Scan(&row.Number, &encoded); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &row.Values); err != nil {
			return nil, fmt.Errorf("decode schedule row %d: %w", row.Number, err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule rows: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrRowsNotFound
	}

	return out, nil
}

func (s *SQLiteStore) ListSources() ([]Source, error) {
	const query = `
SELECT
	source_file,
	COUNT(*),
	MAX(imported_at)
FROM schedule_rows
GROUP BY source_file
ORDER BY MIN(id);
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	sources := make([]Source, 0, 8)
	for rows.Next() {
		var (
			source      Source
			importedRaw string
		)
		if err := rows.Scan(&source.File, &source.Rows, &importedRaw); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		source.ImportedAt, err = time.Parse(time.RFC3339, importedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse imported_at %q: %w", importedRaw, err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}

	return sources, nil
}

func (s *SQLiteStore) DeleteAllRows() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM schedule_rows;`)
	if err != nil {
		return 0, fmt.Errorf("delete schedule rows: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
