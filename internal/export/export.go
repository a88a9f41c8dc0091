// Package export runs the whole pipeline: connect, dump, render, write.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"schemadoc/internal/db"
	"schemadoc/internal/dump"
	"schemadoc/internal/logger"
	"schemadoc/internal/markdown"
	"schemadoc/pkg/config"
)

// DefaultOutput is the document written when no path is configured.
const DefaultOutput = "Database Design.md"

type Options struct {
	Output    string
	WikiLinks bool
	OrderRows bool
	// TimeoutSec bounds connecting and pinging the database.
	TimeoutSec int
	Progress   dump.Progress
}

// Run exports target to opts.Output and returns the path written. The
// connection is closed on every return path, and the output file is only
// created once the whole document has been rendered.
func Run(ctx context.Context, target config.Target, opts Options) (string, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}

	session, err := db.Open(ctx, target.Driver, target.DSN, opts.TimeoutSec)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close connection: %v", err)
		}
	}()
	logger.Info("connected to %s database %s", target.Driver, target.Database)

	d, err := dump.ForSession(session, dump.Options{
		OrderRows: opts.OrderRows,
		Progress:  opts.Progress,
	}).Dump(ctx, target.Database)
	if err != nil {
		return "", err
	}
	logger.Info("dumped %d tables, %d views, %d procedures", len(d.Tables), len(d.Views), len(d.Procedures))

	doc := markdown.Render(d, markdown.Options{WikiLinks: opts.WikiLinks})
	if err := WriteFile(opts.Output, []byte(doc)); err != nil {
		return "", err
	}
	return opts.Output, nil
}

// WriteFile replaces path with data in one step: the bytes go to a temporary
// file in the same directory which is then renamed over path. A failure
// leaves any previous file untouched and no partial file behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
