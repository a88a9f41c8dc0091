//go:build oracle
// +build oracle

package dialects

import (
	"context"
	"fmt"

	_ "github.com/godror/godror"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

// oracleDialect implements Dialect for Oracle. The database name is the
// owning schema; DDL comes from DBMS_METADATA.
type oracleDialect struct{}

func (oracleDialect) ListObjects(ctx context.Context, q db.Querier, k introspect.Kind, database string) ([]string, error) {
	switch k {
	case introspect.Table:
		return queryNames(ctx, q, `SELECT object_name FROM user_objects WHERE object_type = 'TABLE'`)
	case introspect.View:
		return queryNames(ctx, q, `SELECT object_name FROM user_objects WHERE object_type = 'VIEW'`)
	case introspect.Procedure:
		return queryNames(ctx, q, `
            SELECT object_name FROM all_objects
            WHERE owner = :1 AND object_type = 'PROCEDURE'`, database)
	}
	return nil, fmt.Errorf("unsupported object kind %v", k)
}

func (oracleDialect) CreateStatement(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	// Selecting from user_objects turns a missing object into "no row"
	// instead of ORA-31603.
	return queryColumn(ctx, q, "ddl", `
        SELECT DBMS_METADATA.GET_DDL(object_type, object_name) AS ddl
        FROM user_objects
        WHERE object_type = :1 AND object_name = :2`, k.Keyword(), name)
}

func (oracleDialect) QuoteIdent(name string) string {
	return quoteWith(`"`, `"`, name)
}

func init() {
	db.Register("godror", oracleDialect{})
	db.Register("oracle", oracleDialect{})
}
