package output

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mvp-joe/project-neo/internal/neo"
)

const approachesSchema = `
CREATE TABLE IF NOT EXISTS approaches (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	datetime_utc          TEXT NOT NULL,
	distance_au           REAL NOT NULL,
	velocity_km_s         REAL NOT NULL,
	designation           TEXT NOT NULL,
	name                  TEXT,
	diameter_km           REAL,
	potentially_hazardous INTEGER
);
CREATE INDEX IF NOT EXISTS idx_approaches_designation ON approaches(designation);
`

// SQLiteWriter stores approaches in an approaches table of a SQLite database.
// Unknown values are stored as NULL.
type SQLiteWriter struct {
	path string
}

// NewSQLiteWriter creates a writer for the database file at path.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{path: path}
}

// Write implements Writer. All rows are inserted in a single transaction.
func (s *SQLiteWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, approachesSchema); err != nil {
		return 0, fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Build the query once with Squirrel, then get SQL for preparation
	sqlStr, _, err := sq.Insert("approaches").
		Columns(columns...).
		Values("", 0.0, 0.0, "", nil, nil, nil).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqlStr)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		_, err := stmt.ExecContext(ctx, NewRecord(a).values()...)
		return err
	})
	if err != nil {
		return n, fmt.Errorf("failed to insert approach: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("failed to commit batch: %w", err)
	}
	return n, nil
}
