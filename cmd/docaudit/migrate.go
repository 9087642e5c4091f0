package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dealdocs/internal/audit"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Promote legacy files into database blobs",
		Long: `Resolve each file-backed document against the search roots and copy its
bytes into the database as a blob. The legacy file is left in place.

Only high and medium confidence resolutions are promoted; low confidence
matches are counted and skipped. Records that already hold a blob are
skipped, so an interrupted run is resumed by running migrate again.

Examples:
  # Promote everything resolvable
  docaudit migrate

  # Promote at most 50 documents and copy each source file to S3 first
  docaudit migrate --limit 50 --archive

  # Count what would be promoted without writing
  docaudit migrate --dry-run`,
		RunE: runMigrate,
	}
	addCorpusFlags(migrateCmd)
	migrateCmd.Flags().Int("limit", 0, "stop after attempting this many promotions (0 = no limit)")
	migrateCmd.Flags().Bool("dry-run", false, "report what would be promoted without writing")
	migrateCmd.Flags().Bool("archive", false, "copy each promoted file to the configured S3 archive")
	return migrateCmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	withArchive, _ := cmd.Flags().GetBool("archive")

	runner, cleanup, err := newRunner(cmd, withArchive)
	if err != nil {
		return err
	}
	defer cleanup()

	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	stats, err := runner.Migrate(cmd.Context(), audit.MigrateOptions{DryRun: dryRun, Limit: limit})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(stats)
	}
	printMigrateStats(stats)
	return nil
}

func printMigrateStats(s *audit.MigrateStats) {
	if s.DryRun {
		fmt.Println("dry run: nothing was written")
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "examined\t%d\n", s.Examined)
	_, _ = fmt.Fprintf(w, "already blob\t%d\n", s.AlreadyBlob)
	_, _ = fmt.Fprintf(w, "promoted\t%d\n", s.Promoted)
	_, _ = fmt.Fprintf(w, "unresolved\t%d\n", s.Unresolved)
	_, _ = fmt.Fprintf(w, "low confidence\t%d\n", s.LowConfidence)
	_, _ = fmt.Fprintf(w, "failed\t%d\n", s.Failed)
	_, _ = fmt.Fprintf(w, "archived\t%d\n", s.Archived)
	_ = w.Flush()
}
