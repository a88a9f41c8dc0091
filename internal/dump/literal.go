package dump

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

const timeLayout = "2006-01-02 15:04:05"

// Literal renders one value as a SQL literal: bare NULL for nil, otherwise
// the value's text wrapped in single quotes with embedded quotes doubled.
// Numbers are quoted too; no other escaping is applied.
func Literal(v any) string {
	if v == nil {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(text(v), "'", "''") + "'"
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Nanosecond() == 0 {
			return x.Format(timeLayout)
		}
		return x.Format(timeLayout + ".999999999")
	default:
		return fmt.Sprint(x)
	}
}

// DropStatement builds DROP <KIND> IF EXISTS <name>; without touching the
// database.
func DropStatement(d db.Dialect, k introspect.Kind, name string) string {
	return fmt.Sprintf("DROP %s IF EXISTS %s;", k.Keyword(), d.QuoteIdent(name))
}

// InsertStatement renders row as a single INSERT for table.
func InsertStatement(d db.Dialect, table string, row introspect.Row) string {
	return insertPrefix(d, table, row.Columns) + values(row.Values)
}

func insertPrefix(d db.Dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES ", d.QuoteIdent(table), strings.Join(quoted, ", "))
}

func values(vals []any) string {
	lits := make([]string, len(vals))
	for i, v := range vals {
		lits[i] = Literal(v)
	}
	return "(" + strings.Join(lits, ", ") + ");"
}

// SelectAll builds the row query for table. When orderBy > 0 the rows are
// ordered by the first orderBy result columns, by position.
func SelectAll(d db.Dialect, table string, orderBy int) string {
	q := "SELECT * FROM " + d.QuoteIdent(table)
	if orderBy <= 0 {
		return q
	}
	pos := make([]string, orderBy)
	for i := range pos {
		pos[i] = strconv.Itoa(i + 1)
	}
	return q + " ORDER BY " + strings.Join(pos, ", ")
}
