package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dealdocs/internal/audit"
)

func newMismatchesCmd() *cobra.Command {
	mismatchesCmd := &cobra.Command{
		Use:   "mismatches",
		Short: "Flag documents whose names mention another deal",
		Long: `Scan the corpus and report documents whose file name carries a keyword
belonging exclusively to a different deal than the one they are filed
under.

This is heuristic evidence for manual review. Nothing is ever moved or
rewritten; use the move endpoint to relocate a confirmed misfile.`,
		RunE: runMismatches,
	}
	addCorpusFlags(mismatchesCmd)
	return mismatchesCmd
}

func runMismatches(cmd *cobra.Command, args []string) error {
	runner, cleanup, err := newRunner(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := runner.Scan(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report.DealMismatches)
	}

	if len(report.DealMismatches) == 0 {
		fmt.Printf("%d documents scanned, no suspect deal assignments\n", report.Total)
		return nil
	}

	printDealMismatches(report.DealMismatches)
	fmt.Printf("\n%d documents scanned, %d suspect deal assignments\n", report.Total, len(report.DealMismatches))
	return nil
}

func printDealMismatches(mismatches []audit.DealMismatch) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDEAL\tFILE\tKEYWORD\tSUSPECT DEAL")
	for _, m := range mismatches {
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d (%s)\n",
			m.DocumentID, m.DealID, m.FileName, m.Keyword, m.SuspectDealID, m.SuspectDealName)
	}
	_ = w.Flush()
}
