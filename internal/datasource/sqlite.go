package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// SQLiteReader provides read-only access to a trace slice database: a single
// `slices` table with name, ts (start) and dur columns in canonical units,
// the shape Perfetto-style exporters write.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a slice database for reading.
func NewSQLiteReader(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords reads all slices in rowid order, which preserves the exporter's
// write order the way input order is preserved for text payloads.
func (r *SQLiteReader) LoadRecords(ctx context.Context) ([]model.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, ts, dur FROM slices ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query slices: %w", err)
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var name sql.NullString
		var ts, dur sql.NullFloat64
		if err := rows.Scan(&name, &ts, &dur); err != nil {
			return nil, fmt.Errorf("scan slice row: %w", err)
		}
		rec := model.RawRecord{Name: name.String}
		if ts.Valid {
			v := ts.Float64
			rec.Start = &v
		}
		if dur.Valid {
			v := dur.Float64
			rec.Duration = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slices: %w", err)
	}
	return records, nil
}
