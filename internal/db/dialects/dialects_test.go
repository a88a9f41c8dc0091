package dialects

import (
	"context"
	"testing"

	"schemadoc/internal/db"
	"schemadoc/internal/introspect"
)

func TestQuoteIdent(t *testing.T) {
	var tests = []struct {
		dialect string
		name    string
		out     string
	}{
		{"mysql", "orders", "`orders`"},
		{"mariadb", "order items", "`order items`"},
		{"mysql", "we`ird", "`we``ird`"},
		{"sqlite", "orders", "`orders`"},
		{"postgres", "Orders", `"Orders"`},
		{"pgx", `a"b`, `"a""b"`},
		{"sqlserver", "orders", "[orders]"},
		{"mssql", "a]b", "[a]]b]"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect+" "+tt.name, func(t *testing.T) {
			d, err := db.Lookup(tt.dialect)
			if err != nil {
				t.Fatalf("\nlookup: %v", err)
			}
			if got := d.QuoteIdent(tt.name); got != tt.out {
				t.Errorf("\ngot %s, wanted %s", got, tt.out)
			}
		})
	}
}

func TestRegisteredDialects(t *testing.T) {
	want := map[string]bool{"mysql": true, "mariadb": true, "sqlite": true, "sqlite3": true,
		"postgres": true, "pgx": true, "sqlserver": true, "mssql": true}
	for _, name := range db.RegisteredDialects() {
		delete(want, name)
	}
	if len(want) != 0 {
		t.Errorf("\ndialects not registered: %v", want)
	}
}

func TestSQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	s, err := db.Open(ctx, "sqlite", ":memory:", 5)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for _, stmt := range []string{
		`CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`,
		`CREATE VIEW named AS SELECT name FROM items`,
	} {
		if _, err := s.Conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	var tests = []struct {
		kind  introspect.Kind
		names []string
	}{
		// sqlite_sequence is internal and must not be listed
		{introspect.Table, []string{"items"}},
		{introspect.View, []string{"named"}},
		{introspect.Procedure, nil},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Section(), func(t *testing.T) {
			names, err := s.Dialect.ListObjects(ctx, s.Conn, tt.kind, "main")
			if err != nil {
				t.Fatalf("\nlist: %v", err)
			}
			if len(names) != len(tt.names) || (len(names) > 0 && names[0] != tt.names[0]) {
				t.Errorf("\ngot %v, wanted %v", names, tt.names)
			}
		})
	}

	create, err := s.Dialect.CreateStatement(ctx, s.Conn, introspect.View, "named")
	if err != nil || create != "CREATE VIEW named AS SELECT name FROM items" {
		t.Errorf("\nview create = %q, %v", create, err)
	}
	create, err = s.Dialect.CreateStatement(ctx, s.Conn, introspect.Table, "nope")
	if err != nil || create != "" {
		t.Errorf("\nmissing table create = %q, %v; wanted empty and no error", create, err)
	}
}

func TestComposeCreateTable(t *testing.T) {
	pg, _ := db.Lookup("postgres")
	cols := []columnDef{
		{Name: "id", Type: "integer", NotNull: true, Identity: "GENERATED ALWAYS AS IDENTITY"},
		{Name: "note", Type: "text"},
	}
	cols[1].Default.String, cols[1].Default.Valid = "'none'::text", true

	got := composeCreateTable(pg.QuoteIdent, "orders", cols, []string{"CONSTRAINT orders_pkey PRIMARY KEY (id)"})
	want := "CREATE TABLE \"orders\" (\n" +
		"  \"id\" integer GENERATED ALWAYS AS IDENTITY NOT NULL,\n" +
		"  \"note\" text DEFAULT 'none'::text,\n" +
		"  CONSTRAINT orders_pkey PRIMARY KEY (id)\n" +
		");"
	if got != want {
		t.Errorf("\ngot:\n%s\nwant:\n%s", got, want)
	}

	if got := composeCreateTable(pg.QuoteIdent, "gone", nil, nil); got != "" {
		t.Errorf("\nno columns should compose nothing, got %q", got)
	}
}
