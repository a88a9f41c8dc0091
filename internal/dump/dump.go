// Package dump reads a database catalog and serializes every table, view
// and stored procedure into drop, create and insert statements.
package dump

import (
	"context"
	"fmt"
	"sort"
	"time"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
	"schemadoc/internal/logger"
)

// ErrQuery wraps a failed catalog or data query. Any ErrQuery aborts the
// whole dump.
type ErrQuery struct {
	Step   string // e.g. "list tables", "create statement"
	Object string // empty for catalog listings
	Cause  error
}

func (e *ErrQuery) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("query error: %s: %v", e.Step, e.Cause)
	}
	return fmt.Sprintf("query error: %s for %s: %v", e.Step, e.Object, e.Cause)
}

func (e *ErrQuery) Unwrap() error {
	return e.Cause
}

// Progress is told about each object as it is serialized.
type Progress interface {
	Start(total int)
	Step(k introspect.Kind, name string)
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int)                    {}
func (noProgress) Step(introspect.Kind, string) {}
func (noProgress) Finish()                      {}

type Options struct {
	// OrderRows sorts table rows by every column so repeated dumps of
	// unchanged data are identical. Off by default: rows come back in
	// whatever order the engine returns them.
	OrderRows bool
	Progress  Progress
	// Now stamps the dump; defaults to time.Now.
	Now func() time.Time
}

// Dumper runs every query over one connection, one query at a time.
type Dumper struct {
	q       db.Querier
	dialect db.Dialect
	opts    Options
}

// New returns a Dumper reading through q with dialect d.
func New(q db.Querier, d db.Dialect, opts Options) *Dumper {
	if opts.Progress == nil {
		opts.Progress = noProgress{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dumper{q: q, dialect: d, opts: opts}
}

// ForSession returns a Dumper bound to an open session.
func ForSession(s *db.Session, opts Options) *Dumper {
	return New(s.Conn, s.Dialect, opts)
}

// Catalog lists the tables, views and procedures of database, each sorted
// ordinally.
func (d *Dumper) Catalog(ctx context.Context, database string) (introspect.Catalog, error) {
	var c introspect.Catalog
	for _, k := range introspect.Kinds {
		names, err := d.dialect.ListObjects(ctx, d.q, k, database)
		if err != nil {
			return introspect.Catalog{}, &ErrQuery{Step: "list " + k.Section(), Cause: err}
		}
		sort.Strings(names)
		switch k {
		case introspect.Table:
			c.Tables = names
		case introspect.View:
			c.Views = names
		case introspect.Procedure:
			c.Procedures = names
		}
	}
	logger.Debug("catalog: %d tables, %d views, %d procedures", len(c.Tables), len(c.Views), len(c.Procedures))
	return c, nil
}

// Object serializes one object. Only tables get insert statements.
func (d *Dumper) Object(ctx context.Context, k introspect.Kind, name string) (introspect.Object, error) {
	obj := introspect.Object{
		Kind: k,
		Name: name,
		Drop: DropStatement(d.dialect, k, name),
	}

	create, err := d.dialect.CreateStatement(ctx, d.q, k, name)
	if err != nil {
		return obj, &ErrQuery{Step: "create statement", Object: k.Label() + " " + name, Cause: err}
	}
	if create == "" {
		logger.Warn("%s %s has no definition; it may have been dropped during the export", k.Label(), name)
	}
	obj.Create = create

	if k == introspect.Table {
		inserts, err := d.Inserts(ctx, name)
		if err != nil {
			return obj, &ErrQuery{Step: "select rows", Object: k.Label() + " " + name, Cause: err}
		}
		obj.Inserts = inserts
	}
	return obj, nil
}

// Inserts renders one INSERT statement per row of table.
func (d *Dumper) Inserts(ctx context.Context, table string) ([]string, error) {
	orderBy := 0
	if d.opts.OrderRows {
		cols, err := d.columns(ctx, table)
		if err != nil {
			return nil, err
		}
		orderBy = len(cols)
	}

	rows, err := d.q.QueryContext(ctx, SelectAll(d.dialect, table, orderBy))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var inserts []string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		inserts = append(inserts, InsertStatement(d.dialect, table, introspect.Row{Columns: cols, Values: vals}))
	}
	return inserts, rows.Err()
}

// columns reads the result columns of table without fetching rows.
func (d *Dumper) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.q.QueryContext(ctx, "SELECT * FROM "+d.dialect.QuoteIdent(table)+" WHERE 1 = 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// Dump reads the catalog and serializes every object of database. The first
// failing query aborts the run; no partial dump is returned.
func (d *Dumper) Dump(ctx context.Context, database string) (*introspect.Dump, error) {
	c, err := d.Catalog(ctx, database)
	if err != nil {
		return nil, err
	}

	out := &introspect.Dump{Database: database, Generated: d.opts.Now()}
	d.opts.Progress.Start(len(c.Tables) + len(c.Views) + len(c.Procedures))
	defer d.opts.Progress.Finish()

	for _, k := range introspect.Kinds {
		for _, name := range c.Names(k) {
			d.opts.Progress.Step(k, name)
			obj, err := d.Object(ctx, k, name)
			if err != nil {
				return nil, err
			}
			logger.Debug("%s %s: %d insert(s)", k.Label(), name, len(obj.Inserts))
			out.Add(obj)
		}
	}
	return out, nil
}
