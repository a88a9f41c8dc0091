package dialects

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"schemadoc/internal/db"
)

// queryNames runs query and collects the first column of every row.
func queryNames(ctx context.Context, q db.Querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(sql.RawBytes)
	}

	var names []string
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		names = append(names, string(*dest[0].(*sql.RawBytes)))
	}
	return names, rows.Err()
}

// queryColumn runs query and returns the named column of the first row, or
// "" when there is no row. A NULL value is also "".
func queryColumn(ctx context.Context, q db.Querier, column, query string, args ...any) (string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	idx := -1
	for i, c := range cols {
		if strings.EqualFold(c, column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("column %q not in result %v", column, cols)
	}

	if !rows.Next() {
		return "", rows.Err()
	}
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(sql.NullString)
	}
	if err := rows.Scan(dest...); err != nil {
		return "", err
	}
	return dest[idx].(*sql.NullString).String, nil
}

// quoteWith wraps name in open/end, doubling any embedded end character.
func quoteWith(open, end, name string) string {
	return open + strings.ReplaceAll(name, end, end+end) + end
}

// columnDef is one column of a composed CREATE TABLE.
type columnDef struct {
	Name     string
	Type     string
	NotNull  bool
	Default  sql.NullString
	Identity string
}

// composeCreateTable renders a CREATE TABLE statement for engines that have
// no built-in "show create table".
func composeCreateTable(quote func(string) string, table string, cols []columnDef, constraints []string) string {
	if len(cols) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quote(table))
	b.WriteString(" (\n")
	lines := make([]string, 0, len(cols)+len(constraints))
	for _, c := range cols {
		line := "  " + quote(c.Name) + " " + c.Type
		if c.Identity != "" {
			line += " " + c.Identity
		}
		if c.Default.Valid {
			line += " DEFAULT " + c.Default.String
		}
		if c.NotNull {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	for _, c := range constraints {
		lines = append(lines, "  "+c)
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);")
	return b.String()
}
