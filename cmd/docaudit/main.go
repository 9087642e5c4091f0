// docaudit inspects and repairs the deal document corpus.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"

	"dealdocs/internal/audit"
	"dealdocs/internal/config"
	"dealdocs/internal/database"
	"dealdocs/internal/repository/postgres"
	"dealdocs/internal/resolver"
	"dealdocs/internal/storage"
)

var (
	logLevel string
	jsonOut  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docaudit",
		Short: "Audit and repair the deal document store",
		Long: `docaudit walks the documents table and reconciles records against
blob payloads and legacy files on disk.

Every pass is idempotent: a run that crashes or is cut short by --limit
is resumed by running the same command again.

Examples:
  # Classify every record and report corpus problems
  docaudit scan

  # Promote resolvable legacy files into database blobs, 100 at a time
  docaudit migrate --limit 100

  # Preview path repairs without writing anything
  docaudit repair-paths --dry-run

  # Flag documents whose names mention another deal
  docaudit mismatches`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit JSON instead of tables")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newRepairPathsCmd())
	rootCmd.AddCommand(newMismatchesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// addCorpusFlags registers the iteration flags shared by every pass.
func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "concurrent document workers (default from AUDIT_WORKERS)")
	cmd.Flags().Int("batch-size", 0, "documents fetched per batch (default from AUDIT_BATCH_SIZE)")
}

// newRunner wires an audit runner against the configured database. The
// returned cleanup closes the connection.
func newRunner(cmd *cobra.Command, withArchive bool) (*audit.Runner, func(), error) {
	cfg := config.Load()
	logger := newLogger(logLevel)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Audit.Workers = workers
	}
	if batch, _ := cmd.Flags().GetInt("batch-size"); batch > 0 {
		cfg.Audit.BatchSize = batch
	}

	// One-shot process: cache root listings for the duration of the run.
	res := resolver.New(cfg.Documents.SearchRoots, resolver.WithListingCache())

	var archive storage.Archive
	if withArchive {
		archive, err = storage.NewMinIO(cfg.Archive)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("connect archive: %w", err)
		}
	}

	docRepo := postgres.NewDocumentPostgres(db)
	dealRepo := postgres.NewDealPostgres(db)
	runner := audit.NewRunner(docRepo, dealRepo, res, archive, cfg.Audit, logger)

	return runner, func() { db.Close() }, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
