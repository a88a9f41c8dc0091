package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"schemadoc/internal/introspect"
	"schemadoc/internal/logger"
	"schemadoc/pkg/config"
)

// Querier runs a query and hands back a cursor. *sql.Conn, *sql.DB and
// *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Dialect knows how to read one database engine's catalog.
type Dialect interface {

	// ListObjects returns the names of every object of kind k that belongs to
	// database. Order is unspecified.
	ListObjects(ctx context.Context, q Querier, k introspect.Kind, database string) ([]string, error)

	// CreateStatement returns the DDL that recreates the named object, or ""
	// when the catalog returns no row for it.
	CreateStatement(ctx context.Context, q Querier, k introspect.Kind, name string) (string, error)

	// QuoteIdent quotes an identifier for embedding in generated SQL.
	QuoteIdent(name string) string
}

// ErrConnection wraps a failure to open or reach the database.
type ErrConnection struct {
	Driver string
	Cause  error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Driver, e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

const defaultTimeoutSec = 10

var dialects = map[string]Dialect{}

// Register makes a Dialect available under name.
func Register(name string, d Dialect) {
	dialects[strings.ToLower(name)] = d
}

// listRegistered returns the registered dialect keys (for diagnostics).
func listRegistered() []string {
	keys := make([]string, 0, len(dialects))
	for k := range dialects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RegisteredDialects is a helper that allows main to print registered dialects
func RegisteredDialects() []string {
	return listRegistered()
}

// Lookup returns the dialect registered for driver after alias normalization.
func Lookup(driver string) (Dialect, error) {
	d, ok := dialects[config.NormalizeDriver(driver)]
	if !ok {
		return nil, &config.ErrConfig{Cause: fmt.Errorf("dialect not registered: %q (available: %v)", driver, listRegistered())}
	}
	return d, nil
}

// Session is one pinned connection plus the dialect used to read it.
type Session struct {
	Driver  string
	Dialect Dialect
	Conn    *sql.Conn

	pool *sql.DB
}

// Open connects to the database and pins a single connection. The connect
// and ping are bounded by timeoutSec (10 when unset); the caller must Close
// the session.
func Open(ctx context.Context, driver, dsn string, timeoutSec int) (*Session, error) {
	driver = config.NormalizeDriver(driver)
	dialect, err := Lookup(driver)
	if err != nil {
		return nil, err
	}
	pool, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &ErrConnection{Driver: driver, Cause: err}
	}
	pool.SetMaxOpenConns(1)

	if timeoutSec <= 0 {
		timeoutSec = defaultTimeoutSec
	}
	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	conn, err := pool.Conn(connectCtx)
	if err != nil {
		pool.Close()
		return nil, &ErrConnection{Driver: driver, Cause: err}
	}
	if err := conn.PingContext(connectCtx); err != nil {
		conn.Close()
		pool.Close()
		return nil, &ErrConnection{Driver: driver, Cause: err}
	}
	logger.Debug("connected using driver %s", driver)

	return &Session{Driver: driver, Dialect: dialect, Conn: conn, pool: pool}, nil
}

// Close releases the pinned connection and the underlying pool.
func (s *Session) Close() error {
	return errors.Join(s.Conn.Close(), s.pool.Close())
}
