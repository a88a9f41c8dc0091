package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultTargetFile is read when no connection is given on the command line.
	DefaultTargetFile = "config.txt"

	EnvDSN      = "SCHEMADOC_DSN"
	EnvDatabase = "SCHEMADOC_DATABASE"
	EnvDriver   = "SCHEMADOC_DRIVER"
)

// ErrConfig is a configuration problem detected before any connection attempt.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}

func configErrorf(format string, args ...any) error {
	return &ErrConfig{Cause: fmt.Errorf(format, args...)}
}

// Target identifies the database to export. It is built once and passed by
// value; nothing mutates it afterwards.
type Target struct {
	Driver   string
	DSN      string
	Database string
}

// Validate checks that every field is set.
func (t Target) Validate() error {
	if t.Driver == "" {
		return configErrorf("no driver given")
	}
	if t.DSN == "" {
		return configErrorf("connection string is empty")
	}
	if t.Database == "" {
		return configErrorf("database name is empty")
	}
	return nil
}

// TargetFromDB builds a Target from a YAML database section.
func TargetFromDB(db DBConfig) (Target, error) {
	driver, dsn, err := BuildDriverAndDSN(db)
	if err != nil {
		return Target{}, &ErrConfig{Cause: err}
	}
	name := db.DatabaseName
	if driver == "godror" {
		// Oracle objects belong to the connecting schema, not the service.
		name = strings.ToUpper(db.Username)
	}
	return Target{Driver: driver, DSN: dsn, Database: name}, nil
}

// LoadTargetFile reads a two-line target file: the connection string on the
// first line and the database name on the second. Surrounding whitespace is
// trimmed from both; anything after the second line is ignored.
func LoadTargetFile(path, driver string) (Target, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Target{}, configErrorf("%s not found; create it or pass <connection> <database>", path)
		}
		return Target{}, &ErrConfig{Cause: err}
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return Target{}, configErrorf("read %s: %w", path, err)
	}
	if len(lines) < 2 {
		return Target{}, configErrorf("%s is missing required lines; expected line 1: connection string, line 2: database name", path)
	}

	t := Target{Driver: NormalizeDriver(driver), DSN: lines[0], Database: lines[1]}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// TargetFromEnv builds a Target from SCHEMADOC_* variables. ok is false when
// the DSN variable is unset.
func TargetFromEnv(driver string) (t Target, ok bool, err error) {
	dsn := strings.TrimSpace(os.Getenv(EnvDSN))
	if dsn == "" {
		return Target{}, false, nil
	}
	if d := os.Getenv(EnvDriver); d != "" {
		driver = d
	}
	t = Target{
		Driver:   NormalizeDriver(driver),
		DSN:      dsn,
		Database: strings.TrimSpace(os.Getenv(EnvDatabase)),
	}
	if err := t.Validate(); err != nil {
		return Target{}, true, err
	}
	return t, true, nil
}

// Sources lists where a Target may come from, in priority order.
type Sources struct {
	Args       []string // positional <connection> <database>
	Driver     string   // used unless a YAML file names its own type
	ConfigPath string   // optional YAML file
	TargetFile string   // two-line fallback file
}

// ResolveTarget picks the first available source: positional arguments, the
// YAML file, SCHEMADOC_* environment variables, then the two-line file.
// The returned string names the source used.
func ResolveTarget(src Sources) (Target, string, error) {
	switch len(src.Args) {
	case 0:
	case 2:
		t := Target{
			Driver:   NormalizeDriver(src.Driver),
			DSN:      src.Args[0],
			Database: src.Args[1],
		}
		if err := t.Validate(); err != nil {
			return Target{}, "", err
		}
		return t, "arguments", nil
	default:
		return Target{}, "", configErrorf("expected <connection> <database>, got %d argument(s)", len(src.Args))
	}

	if src.ConfigPath != "" {
		cfg, err := LoadFile(src.ConfigPath)
		if err != nil {
			return Target{}, "", configErrorf("load %s: %w", src.ConfigPath, err)
		}
		db := cfg.Database
		if db.Type == "" {
			db.Type = src.Driver
		}
		t, err := TargetFromDB(db)
		if err != nil {
			return Target{}, "", err
		}
		if err := t.Validate(); err != nil {
			return Target{}, "", err
		}
		return t, src.ConfigPath, nil
	}

	if t, ok, err := TargetFromEnv(src.Driver); ok {
		return t, "environment", err
	}

	path := src.TargetFile
	if path == "" {
		path = DefaultTargetFile
	}
	t, err := LoadTargetFile(path, src.Driver)
	return t, path, err
}
