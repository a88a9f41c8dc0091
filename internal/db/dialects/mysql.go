package dialects

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

// myDialect implements Dialect for MySQL and MariaDB.
type myDialect struct{}

func (myDialect) ListObjects(ctx context.Context, q db.Querier, k introspect.Kind, database string) ([]string, error) {
	switch k {
	case introspect.Table:
		return queryNames(ctx, q, `SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'`)
	case introspect.View:
		return queryNames(ctx, q, `SHOW FULL TABLES WHERE Table_type = 'VIEW'`)
	case introspect.Procedure:
		return queryNames(ctx, q, `
            SELECT ROUTINE_NAME
            FROM information_schema.ROUTINES
            WHERE ROUTINE_SCHEMA = ? AND ROUTINE_TYPE = 'PROCEDURE'`, database)
	}
	return nil, fmt.Errorf("unsupported object kind %v", k)
}

const (
	errNoSuchTable     = 1146 // ER_NO_SUCH_TABLE
	errNoSuchProcedure = 1305 // ER_SP_DOES_NOT_EXIST
)

func (d myDialect) CreateStatement(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	stmt, err := d.showCreate(ctx, q, k, name)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == errNoSuchTable || myErr.Number == errNoSuchProcedure) {
		// dropped between listing and inspection
		return "", nil
	}
	return stmt, err
}

func (d myDialect) showCreate(ctx context.Context, q db.Querier, k introspect.Kind, name string) (string, error) {
	switch k {
	case introspect.Table:
		return queryColumn(ctx, q, "Create Table", "SHOW CREATE TABLE "+d.QuoteIdent(name))
	case introspect.View:
		return queryColumn(ctx, q, "Create View", "SHOW CREATE VIEW "+d.QuoteIdent(name))
	case introspect.Procedure:
		// NULL when the user lacks privileges on the routine body
		return queryColumn(ctx, q, "Create Procedure", "SHOW CREATE PROCEDURE "+d.QuoteIdent(name))
	}
	return "", fmt.Errorf("unsupported object kind %v", k)
}

func (myDialect) QuoteIdent(name string) string {
	return quoteWith("`", "`", name)
}

func init() {
	db.Register("mysql", myDialect{})
	db.Register("mariadb", myDialect{})
}
