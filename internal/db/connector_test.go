package db

import (
	"context"
	"errors"
	"testing"

	"schemadoc/internal/introspect"
	"schemadoc/pkg/config"
)

var testdialect string = "testdialect"

type testDialect struct{}

func (testDialect) ListObjects(ctx context.Context, q Querier, k introspect.Kind, database string) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (testDialect) CreateStatement(ctx context.Context, q Querier, k introspect.Kind, name string) (string, error) {
	return "", errors.New("not implemented")
}

func (testDialect) QuoteIdent(name string) string { return name }

func TestRegister(t *testing.T) {
	// tests both Register and RegisteredDialects because they take the same setup

	Register(testdialect, testDialect{})

	if _, ok := dialects[testdialect]; !ok {
		t.Errorf("\ndialect %v not registered correctly in %v", testdialect, dialects)
	}

	rd := RegisteredDialects()

	found := false
	for _, name := range rd {
		if name == testdialect {
			found = true
		}
	}
	if !found {
		t.Errorf("\nRegisteredDialects returned unexpected result %v", rd)
	}
}

func TestOpen(t *testing.T) {

	var tests = []struct {
		name          string
		dialect       string
		dsn           string
		timeout       int
		registerFirst bool
		errIsNil      bool
	}{
		{"unregistered dialect", "nosuchdialect", "", 10, false, false},
		{"sqlite in memory", "sqlite3", ":memory:", 10, true, true},
		{"sqlite bad path", "sqlite", "file:/nonexistent/dir/x.db?mode=ro", 10, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.registerFirst {
				Register("sqlite", testDialect{})
			}

			s, err := Open(context.Background(), tt.dialect, tt.dsn, tt.timeout)

			if (err == nil) != tt.errIsNil {
				if tt.errIsNil {
					t.Errorf("\ngot unexpected error: \"%v\"", err)
				} else {
					t.Errorf("\nexpected an error, did not receive one")
				}
			}
			if err == nil {
				if s.Driver != "sqlite" {
					t.Errorf("\ngot driver %q, wanted sqlite", s.Driver)
				}
				if err := s.Close(); err != nil {
					t.Errorf("\nclose: %v", err)
				}
			}
		})
	}
}

func TestOpenErrorKinds(t *testing.T) {
	_, err := Open(context.Background(), "nosuchdialect", "", 1)
	var cfgErr *config.ErrConfig
	if !errors.As(err, &cfgErr) {
		t.Errorf("unregistered dialect: expected *config.ErrConfig, got %T", err)
	}

	Register("sqlite", testDialect{})
	_, err = Open(context.Background(), "sqlite", "file:/nonexistent/dir/x.db?mode=ro", 1)
	var connErr *ErrConnection
	if !errors.As(err, &connErr) {
		t.Errorf("bad path: expected *ErrConnection, got %T (%v)", err, err)
	}
}
