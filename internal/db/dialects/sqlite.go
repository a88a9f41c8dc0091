package dialects

import (
	"context"
	"fmt"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

// sqliteDialect implements Dialect for SQLite. SQLite has no stored
// procedures, and it accepts MySQL-style backtick identifiers, so generated
// statements keep the same quoting as the MySQL dialect.
type sqliteDialect struct{}

func (sqliteDialect) ListObjects(ctx context.Context, q db.Querier, k introspect.Kind, database string) ([]string, error) {
	switch k {
	case introspect.Table:
		return queryNames(ctx, q, `
            SELECT name FROM sqlite_master
            WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`)
	case introspect.View:
		return queryNames(ctx, q, `SELECT name FROM sqlite_master WHERE type = 'view'`)
	case introspect.Procedure:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported object kind %v", k)
}

func (sqliteDialect) CreateStatement(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	var typ string
	switch k {
	case introspect.Table:
		typ = "table"
	case introspect.View:
		typ = "view"
	default:
		return "", nil
	}
	return queryColumn(ctx, q, "sql", `SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`, typ, name)
}

func (sqliteDialect) QuoteIdent(name string) string {
	return quoteWith("`", "`", name)
}

func init() {
	db.Register("sqlite3", sqliteDialect{})
	db.Register("sqlite", sqliteDialect{})
}
