package dialects

import (
	"context"
	"fmt"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

// pgDialect implements Dialect using information_schema + pg_catalog
// queries. Objects are read from the connection's current schema.
type pgDialect struct{}

func (pgDialect) ListObjects(ctx context.Context, q db.Querier, k introspect.Kind, database string) ([]string, error) {
	switch k {
	case introspect.Table:
		return queryNames(ctx, q, `
            SELECT table_name FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'`)
	case introspect.View:
		return queryNames(ctx, q, `
            SELECT table_name FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_type = 'VIEW'`)
	case introspect.Procedure:
		// overloads share a name
		return queryNames(ctx, q, `
            SELECT DISTINCT routine_name FROM information_schema.routines
            WHERE routine_catalog = $1 AND routine_schema = current_schema()
              AND routine_type = 'PROCEDURE'`, database)
	}
	return nil, fmt.Errorf("unsupported object kind %v", k)
}

func (d pgDialect) CreateStatement(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	switch k {
	case introspect.Table:
		return d.createTable(ctx, q, name)
	case introspect.View:
		return queryColumn(ctx, q, "definition", `
            SELECT 'CREATE OR REPLACE VIEW ' || quote_ident(c.relname) || ' AS' || chr(10)
                   || pg_get_viewdef(c.oid, true) AS definition
            FROM pg_class c
            JOIN pg_namespace n ON n.oid = c.relnamespace
            WHERE n.nspname = current_schema() AND c.relname = $1 AND c.relkind = 'v'`, name)
	case introspect.Procedure:
		return queryColumn(ctx, q, "definition", `
            SELECT pg_get_functiondef(p.oid) AS definition
            FROM pg_proc p
            JOIN pg_namespace n ON n.oid = p.pronamespace
            WHERE n.nspname = current_schema() AND p.proname = $1 AND p.prokind = 'p'
            ORDER BY p.oid
            LIMIT 1`, name)
	}
	return "", fmt.Errorf("unsupported object kind %v", k)
}

// createTable composes the DDL from pg_attribute and pg_constraint since
// PostgreSQL has no server-side "show create table".
func (d pgDialect) createTable(ctx context.Context, q db.Querier, name string) (string, error) {
	cr, err := q.QueryContext(ctx, `
        SELECT a.attname,
               format_type(a.atttypid, a.atttypmod),
               a.attnotnull,
               pg_get_expr(ad.adbin, ad.adrelid),
               CASE a.attidentity
                 WHEN 'a' THEN 'GENERATED ALWAYS AS IDENTITY'
                 WHEN 'd' THEN 'GENERATED BY DEFAULT AS IDENTITY'
                 ELSE '' END
        FROM pg_attribute a
        JOIN pg_class c ON c.oid = a.attrelid
        JOIN pg_namespace n ON n.oid = c.relnamespace
        LEFT JOIN pg_attrdef ad ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
        WHERE n.nspname = current_schema() AND c.relname = $1
          AND a.attnum > 0 AND NOT a.attisdropped
        ORDER BY a.attnum`, name)
	if err != nil {
		return "", fmt.Errorf("query columns for %s: %w", name, err)
	}
	var cols []columnDef
	for cr.Next() {
		var col columnDef
		if err := cr.Scan(&col.Name, &col.Type, &col.NotNull, &col.Default, &col.Identity); err != nil {
			cr.Close()
			return "", fmt.Errorf("scan column for %s: %w", name, err)
		}
		cols = append(cols, col)
	}
	cr.Close()
	if err := cr.Err(); err != nil {
		return "", fmt.Errorf("read columns for %s: %w", name, err)
	}
	if len(cols) == 0 {
		return "", nil
	}

	constraints, err := queryNames(ctx, q, `
        SELECT 'CONSTRAINT ' || quote_ident(con.conname) || ' ' || pg_get_constraintdef(con.oid)
        FROM pg_constraint con
        JOIN pg_class c ON c.oid = con.conrelid
        JOIN pg_namespace n ON n.oid = c.relnamespace
        WHERE n.nspname = current_schema() AND c.relname = $1
        ORDER BY CASE con.contype WHEN 'p' THEN 0 WHEN 'u' THEN 1 WHEN 'f' THEN 2 ELSE 3 END,
                 con.conname`, name)
	if err != nil {
		return "", fmt.Errorf("query constraints for %s: %w", name, err)
	}

	return composeCreateTable(d.QuoteIdent, name, cols, constraints), nil
}

func (pgDialect) QuoteIdent(name string) string {
	return quoteWith(`"`, `"`, name)
}

func init() {
	db.Register("postgres", pgDialect{})
	db.Register("pgx", pgDialect{})
}
