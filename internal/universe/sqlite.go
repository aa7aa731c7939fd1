package universe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/agentic-research/chartbind/internal/binding"

	_ "modernc.org/sqlite"
)

// LoadSQLite builds a universe from the schema of one table. Every column
// carries the table name as its entity.
func LoadSQLite(ctx context.Context, dbPath, table string) (*Set, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var cols []binding.Column
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, binding.Column{Name: name, Entity: table, DataType: sqliteType(typ)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q has no columns", table)
	}
	return NewSet(cols...), nil
}

// sqliteType applies SQLite's type affinity rules, with dates split out.
func sqliteType(decl string) string {
	t := strings.ToUpper(decl)
	switch {
	case strings.Contains(t, "INT"):
		return binding.TypeInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return binding.TypeString
	case strings.Contains(t, "TIMESTAMP"), strings.Contains(t, "DATETIME"):
		return binding.TypeTimestamp
	case strings.Contains(t, "DATE"):
		return binding.TypeDate
	case strings.Contains(t, "TIME"):
		return binding.TypeTime
	case strings.Contains(t, "BOOL"):
		return binding.TypeBoolean
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUM"), strings.Contains(t, "DEC"):
		return binding.TypeDouble
	}
	return binding.TypeString
}
