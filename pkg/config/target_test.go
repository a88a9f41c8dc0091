package config

import (
	"errors"
	"testing"
)

func TestLoadTargetFile(t *testing.T) {
	var tests = []struct {
		name     string
		filename string
		target   Target
		errIsNil bool
	}{
		{"two lines trimmed",
			"./testdata/two_lines.txt",
			Target{Driver: "mysql", DSN: "reporter:s3cret@tcp(localhost:3306)/shop", Database: "shop"},
			true},
		{"one line", "./testdata/one_line.txt", Target{}, false},
		{"zero lines", "./testdata/empty.txt", Target{}, false},
		{"blank database line", "./testdata/blank_database.txt", Target{}, false},
		{"missing file", "./testdata/no_such_file.txt", Target{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := LoadTargetFile(tt.filename, "mariadb")
			if target != tt.target {
				t.Errorf("\ngot target %+v, wanted %+v", target, tt.target)
			}
			if (err == nil) != tt.errIsNil {
				t.Fatalf("\nunexpected error state: %v", err)
			}
			if err != nil {
				var cfgErr *ErrConfig
				if !errors.As(err, &cfgErr) {
					t.Errorf("\nexpected *ErrConfig, got %T", err)
				}
			}
		})
	}
}

func TestTargetFromDB(t *testing.T) {
	oracle, err := TargetFromDB(DBConfig{Type: "oracle", Host: "h", Port: 1521, Username: "hr", Password: "p", DatabaseName: "XEPDB1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.Database != "HR" {
		t.Errorf("oracle database = %q, wanted the schema owner HR", oracle.Database)
	}

	_, err = TargetFromDB(DBConfig{Type: "db2"})
	var cfgErr *ErrConfig
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *ErrConfig for unsupported type, got %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	var tests = []struct {
		name     string
		env      map[string]string
		src      Sources
		target   Target
		source   string
		errIsNil bool
	}{
		{"positional arguments win",
			map[string]string{EnvDSN: "ignored"},
			Sources{Args: []string{"u:p@tcp(h:3306)/shop", "shop"}, Driver: "mysql", TargetFile: "./testdata/two_lines.txt"},
			Target{Driver: "mysql", DSN: "u:p@tcp(h:3306)/shop", Database: "shop"},
			"arguments",
			true},
		{"single argument is an error",
			nil,
			Sources{Args: []string{"only-one"}, Driver: "mysql"},
			Target{},
			"",
			false},
		{"yaml config",
			nil,
			Sources{Driver: "sqlite", ConfigPath: "./testdata/valid_config.yaml"},
			Target{Driver: "mysql", DSN: "reporter:s3cret@tcp(db.internal:3306)/shop?parseTime=true", Database: "shop"},
			"./testdata/valid_config.yaml",
			true},
		{"environment",
			map[string]string{EnvDSN: " file:shop.db ", EnvDatabase: "shop", EnvDriver: "sqlite3"},
			Sources{Driver: "mysql", TargetFile: "./testdata/two_lines.txt"},
			Target{Driver: "sqlite", DSN: "file:shop.db", Database: "shop"},
			"environment",
			true},
		{"environment without database",
			map[string]string{EnvDSN: "file:shop.db"},
			Sources{Driver: "sqlite"},
			Target{},
			"environment",
			false},
		{"fallback file",
			nil,
			Sources{Driver: "mysql", TargetFile: "./testdata/two_lines.txt"},
			Target{Driver: "mysql", DSN: "reporter:s3cret@tcp(localhost:3306)/shop", Database: "shop"},
			"./testdata/two_lines.txt",
			true},
		{"fallback file too short",
			nil,
			Sources{Driver: "mysql", TargetFile: "./testdata/one_line.txt"},
			Target{},
			"./testdata/one_line.txt",
			false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDSN, "")
			t.Setenv(EnvDatabase, "")
			t.Setenv(EnvDriver, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			target, source, err := ResolveTarget(tt.src)
			if (err == nil) != tt.errIsNil {
				t.Fatalf("\nunexpected error state: %v", err)
			}
			if target != tt.target {
				t.Errorf("\ngot target %+v, wanted %+v", target, tt.target)
			}
			if source != tt.source {
				t.Errorf("\ngot source %q, wanted %q", source, tt.source)
			}
		})
	}
}
