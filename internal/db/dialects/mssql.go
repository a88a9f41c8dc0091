package dialects

import (
	"context"
	"fmt"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

// mssqlDialect implements Dialect for Microsoft SQL Server. Objects are read
// from the login's default schema.
type mssqlDialect struct{}

func (mssqlDialect) ListObjects(ctx context.Context, q db.Querier, k introspect.Kind, database string) ([]string, error) {
	switch k {
	case introspect.Table:
		return queryNames(ctx, q, `
            SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
            WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = SCHEMA_NAME()`)
	case introspect.View:
		return queryNames(ctx, q, `
            SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
            WHERE TABLE_TYPE = 'VIEW' AND TABLE_SCHEMA = SCHEMA_NAME()`)
	case introspect.Procedure:
		return queryNames(ctx, q, `
            SELECT ROUTINE_NAME FROM INFORMATION_SCHEMA.ROUTINES
            WHERE ROUTINE_CATALOG = @p1 AND ROUTINE_SCHEMA = SCHEMA_NAME()
              AND ROUTINE_TYPE = 'PROCEDURE'`, database)
	}
	return nil, fmt.Errorf("unsupported object kind %v", k)
}

func (d mssqlDialect) CreateStatement(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	switch k {
	case introspect.Table:
		return d.createTable(ctx, q, name)
	case introspect.View, introspect.Procedure:
		// NULL for a missing object
		return queryColumn(ctx, q, "definition", `
            SELECT OBJECT_DEFINITION(OBJECT_ID(QUOTENAME(SCHEMA_NAME()) + '.' + @p1)) AS definition`,
			d.QuoteIdent(name))
	}
	return "", fmt.Errorf("unsupported object kind %v", k)
}

// createTable composes the DDL from sys.columns since SQL Server has no
// "show create table".
func (d mssqlDialect) createTable(ctx context.Context, q db.Querier, name string) (string, error) {
	objectID := `OBJECT_ID(QUOTENAME(SCHEMA_NAME()) + '.' + @p1)`
	cr, err := q.QueryContext(ctx, `
        SELECT c.name,
               CASE
                 WHEN t.name IN ('varchar','char','varbinary','binary')
                   THEN t.name + '(' + CASE WHEN c.max_length = -1 THEN 'max' ELSE CAST(c.max_length AS varchar(10)) END + ')'
                 WHEN t.name IN ('nvarchar','nchar')
                   THEN t.name + '(' + CASE WHEN c.max_length = -1 THEN 'max' ELSE CAST(c.max_length / 2 AS varchar(10)) END + ')'
                 WHEN t.name IN ('decimal','numeric')
                   THEN t.name + '(' + CAST(c.precision AS varchar(10)) + ',' + CAST(c.scale AS varchar(10)) + ')'
                 ELSE t.name
               END,
               CAST(CASE WHEN c.is_nullable = 1 THEN 0 ELSE 1 END AS bit),
               dc.definition,
               CASE WHEN ic.column_id IS NULL THEN ''
                    ELSE 'IDENTITY(' + CAST(ic.seed_value AS varchar(40)) + ',' + CAST(ic.increment_value AS varchar(40)) + ')'
               END
        FROM sys.columns c
        JOIN sys.types t ON t.user_type_id = c.user_type_id
        LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
        LEFT JOIN sys.identity_columns ic ON ic.object_id = c.object_id AND ic.column_id = c.column_id
        WHERE c.object_id = `+objectID+`
        ORDER BY c.column_id`, d.QuoteIdent(name))
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
        SELECT 'CONSTRAINT ' + QUOTENAME(kc.name)
               + CASE kc.type WHEN 'PK' THEN ' PRIMARY KEY (' ELSE ' UNIQUE (' END
               + STRING_AGG(QUOTENAME(col.name), ', ') WITHIN GROUP (ORDER BY ic.key_ordinal) + ')'
        FROM sys.key_constraints kc
        JOIN sys.index_columns ic ON ic.object_id = kc.parent_object_id AND ic.index_id = kc.unique_index_id
        JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
        WHERE kc.parent_object_id = `+objectID+`
        GROUP BY kc.name, kc.type
        ORDER BY kc.type, kc.name`, d.QuoteIdent(name))
	if err != nil {
		return "", fmt.Errorf("query constraints for %s: %w", name, err)
	}

	return composeCreateTable(d.QuoteIdent, name, cols, constraints), nil
}

func (mssqlDialect) QuoteIdent(name string) string {
	return quoteWith("[", "]", name)
}

func init() {
	db.Register("sqlserver", mssqlDialect{})
	db.Register("mssql", mssqlDialect{})
}
