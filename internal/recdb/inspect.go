package recdb

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Column describes one column of a table as reported by PRAGMA table_info.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Tables lists the user tables in the database.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", translateLockError(err))
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns reports the schema of a table. The table name is validated against
// sqlite_master before being rendered into the PRAGMA, since PRAGMA
// arguments cannot be bound as parameters.
func (s *Store) Columns(ctx context.Context, table string) ([]Column, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, translateLockError(err))
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, Column{
			Name:       name,
			Type:       typeStr,
			NotNull:    notNull != 0,
			PrimaryKey: pk != 0,
		})
	}
	return columns, rows.Err()
}

// SampleRows returns up to limit rows of a table as display strings, along
// with the column headers. Used by the read-only inspect command.
func (s *Store) SampleRows(ctx context.Context, table string, limit int) ([]string, [][]string, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT * FROM "+quoteIdent(table)+" LIMIT ?", limit)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %s: %w", table, translateLockError(err))
	}
	defer rows.Close()

	return collectRaw(rows)
}

// FailedExport returns every terminal (failed or partial) row with all
// columns, capped at limit, for CSV reporting.
func (s *Store) FailedExport(ctx context.Context, limit int) ([]string, [][]string, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT * FROM "+recordTable+" WHERE Status IN (?, ?) ORDER BY Updated DESC LIMIT ?",
		int(StatusPartial), int(StatusFailed), limit,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed recordings: %w", translateLockError(err))
	}
	defer rows.Close()

	return collectRaw(rows)
}

func (s *Store) requireTable(ctx context.Context, table string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check table %q: %w", table, translateLockError(err))
	}
	if count == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func collectRaw(rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(...any) error
	Err() error
}) ([]string, [][]string, error) {
	headers, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(headers))
		targets := make([]any, len(headers))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, nil, err
		}
		record := make([]string, len(headers))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		out = append(out, record)
	}
	return headers, out, rows.Err()
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(value)
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case time.Time:
		return value.UTC().Format(TimeFormat)
	default:
		return fmt.Sprintf("%v", value)
	}
}
