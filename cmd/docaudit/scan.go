package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dealdocs/internal/audit"
)

func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify every document and report corpus problems",
		Long: `Classify every document as blob, filesystem_ok, filesystem_broken or
missing, and report broken records, size mismatches and suspect deal
assignments.

The scan only probes each recorded path for existence; it never rewrites
records. Use migrate or repair-paths to act on what it finds.`,
		RunE: runScan,
	}
	addCorpusFlags(scanCmd)
	return scanCmd
}

func runScan(cmd *cobra.Command, args []string) error {
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
		return printJSON(report)
	}
	printScanReport(report)
	return nil
}

func printScanReport(r *audit.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CLASS\tCOUNT")
	for _, class := range []audit.Classification{
		audit.ClassBlob,
		audit.ClassFilesystemOK,
		audit.ClassFilesystemBroken,
		audit.ClassMissing,
	} {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", class, r.Counts[class])
	}
	_ = w.Flush()

	fmt.Printf("\n%d documents scanned: %d problems, %d size mismatches, %d suspect deal assignments\n",
		r.Total, len(r.Problems), len(r.SizeMismatches), len(r.DealMismatches))

	if len(r.Problems) > 0 {
		fmt.Println("\nProblems:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tDEAL\tKIND\tFILE\tRECORDED PATH")
		for _, p := range r.Problems {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", p.DocumentID, p.DealID, p.Kind, p.FileName, p.ExpectedPath)
		}
		_ = w.Flush()
	}

	if len(r.SizeMismatches) > 0 {
		fmt.Println("\nSize mismatches:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tFILE\tSOURCE\tRECORDED\tACTUAL")
		for _, m := range r.SizeMismatches {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", m.DocumentID, m.FileName, m.Source, m.RecordedSize, m.ActualSize)
		}
		_ = w.Flush()
	}

	if len(r.DealMismatches) > 0 {
		fmt.Println("\nSuspect deal assignments:")
		printDealMismatches(r.DealMismatches)
	}
}
