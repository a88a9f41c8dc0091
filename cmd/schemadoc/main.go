package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"schemadoc/internal/db"
	_ "schemadoc/internal/db/dialects"
	"schemadoc/internal/export"
	"schemadoc/internal/logger"
	"schemadoc/internal/progress"
	"schemadoc/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "schemadoc [connection] [database]",
	Short: "Export a database schema and its data to one Markdown document",
	Long: `schemadoc connects to a database, lists its tables, views and stored
procedures, and writes a Markdown document with drop, create and insert
statements for each of them plus a linked table of contents.

Without arguments the target is read from --config, then from the
SCHEMADOC_DSN / SCHEMADOC_DATABASE environment variables (a .env file is
loaded first), then from a two-line config.txt:

  line 1: connection string
  line 2: database name`,
	Example: `  schemadoc "reporter:secret@tcp(localhost:3306)/shop" shop
  schemadoc --driver sqlite "file:shop.db?mode=ro" shop
  schemadoc --config configs/shop.yaml --links=false`,
	Args: cobra.MaximumNArgs(2),
	RunE: runExport,
}

var (
	driver     string
	configPath string
	targetFile string
	outputPath string
	wikiLinks  bool
	orderRows  bool
	timeout    int
	showBar    bool
	verbose    bool
)

func init() {
	rootCmd.Flags().StringVar(&driver, "driver", "mysql", "database driver (mysql, mariadb, sqlite, postgres, pgx, sqlserver, oracle)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&targetFile, "target-file", config.DefaultTargetFile, "two-line fallback file with connection string and database name")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", export.DefaultOutput, "Markdown file to write (overwritten)")
	rootCmd.Flags().BoolVar(&wikiLinks, "links", true, "use [[#heading|text]] wiki links; false writes standard [text](#anchor) links")
	rootCmd.Flags().BoolVar(&orderRows, "order-rows", false, "order table rows by every column for reproducible dumps")
	rootCmd.Flags().IntVar(&timeout, "timeout", 10, "db connect timeout seconds")
	rootCmd.Flags().BoolVar(&showBar, "progress", false, "show a progress bar on stderr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
		logger.SetVerbose(verbose)
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var cfgErr *config.ErrConfig
		if errors.As(err, &cfgErr) {
			logger.Error("%v (see --help)", err)
		} else {
			logger.Error("export failed: %v", err)
		}
		stop()
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	target, source, err := config.ResolveTarget(config.Sources{
		Args:       args,
		Driver:     driver,
		ConfigPath: configPath,
		TargetFile: targetFile,
	})
	if err != nil {
		return err
	}
	logger.Debug("target from %s, registered dialects: %v", source, db.RegisteredDialects())

	opts := export.Options{
		Output:     outputPath,
		WikiLinks:  wikiLinks,
		OrderRows:  orderRows,
		TimeoutSec: timeout,
	}
	if configPath != "" {
		if err := applyOutputConfig(cmd, &opts); err != nil {
			return err
		}
	}
	if showBar {
		opts.Progress = progress.NewBar(os.Stderr)
	}

	path, err := export.Run(cmd.Context(), target, opts)
	if err != nil {
		return err
	}
	fmt.Println("Database schema exported successfully!")
	fmt.Println(path)
	return nil
}

// applyOutputConfig fills options from the YAML output section. Flags given
// explicitly on the command line win.
func applyOutputConfig(cmd *cobra.Command, opts *export.Options) error {
	appCfg, err := config.LoadFile(configPath)
	if err != nil {
		return &config.ErrConfig{Cause: err}
	}
	out := appCfg.Output
	flags := cmd.Flags()

	if out.Path != "" && !flags.Changed("output") {
		opts.Output = out.Path
	}
	if out.OrderRows && !flags.Changed("order-rows") {
		opts.OrderRows = true
	}
	wiki, ok, err := out.WikiLinks()
	if err != nil {
		return &config.ErrConfig{Cause: err}
	}
	if ok && !flags.Changed("links") {
		opts.WikiLinks = wiki
	}
	return nil
}
