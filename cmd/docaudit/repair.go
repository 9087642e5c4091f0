package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dealdocs/internal/audit"
)

func newRepairPathsCmd() *cobra.Command {
	repairCmd := &cobra.Command{
		Use:   "repair-paths",
		Short: "Rewrite stale file paths to their resolved locations",
		Long: `Re-resolve each file-backed document whose recorded path no longer points
at a regular file, and rewrite the path column to the location the
resolver found.

Only high and medium confidence resolutions are written back. Low
confidence matches are reported as suggestions and left untouched.
Records whose recorded path is still healthy are never rewritten, so the
pass can be re-run safely.

Examples:
  # Repair every broken path
  docaudit repair-paths

  # Show proposed rewrites without writing
  docaudit repair-paths --dry-run`,
		RunE: runRepairPaths,
	}
	addCorpusFlags(repairCmd)
	repairCmd.Flags().Int("limit", 0, "stop after attempting this many repairs (0 = no limit)")
	repairCmd.Flags().Bool("dry-run", false, "report proposed rewrites without writing")
	return repairCmd
}

func runRepairPaths(cmd *cobra.Command, args []string) error {
	runner, cleanup, err := newRunner(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	stats, err := runner.RepairPaths(cmd.Context(), audit.RepairOptions{DryRun: dryRun, Limit: limit})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(stats)
	}
	printRepairStats(stats)
	return nil
}

func printRepairStats(s *audit.RepairStats) {
	if s.DryRun {
		fmt.Println("dry run: nothing was written")
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "examined\t%d\n", s.Examined)
	_, _ = fmt.Fprintf(w, "healthy\t%d\n", s.Healthy)
	_, _ = fmt.Fprintf(w, "repaired\t%d\n", s.Repaired)
	_, _ = fmt.Fprintf(w, "low confidence\t%d\n", s.LowConfidence)
	_, _ = fmt.Fprintf(w, "unresolved\t%d\n", s.Unresolved)
	_, _ = fmt.Fprintf(w, "failed\t%d\n", s.Failed)
	_ = w.Flush()

	if len(s.Changes) == 0 {
		return
	}

	fmt.Println("\nPath changes:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFILE\tOLD PATH\tNEW PATH\tSTRATEGY\tCONFIDENCE\tAPPLIED")
	for _, c := range s.Changes {
		applied := ""
		if c.Applied {
			applied = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.DocumentID, c.FileName, c.OldPath, c.NewPath, c.Strategy, c.Confidence, applied)
	}
	_ = w.Flush()
}
