package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSweepCmd returns the perm-engine sweep subcommand.
func newSweepCmd() *cobra.Command {
	var (
		casesFile string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Report cases eligible for automatic closure",
		Long:  "Evaluate every case against the enforcement rules and list those whose\nI-140 has been adjudicated or whose wage determination lapsed unused.\nThe command only reports; it never mutates the input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			records, err := loadCaseRecords(casesFile)
			if err != nil {
				return err
			}
			ref, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			result := cliCtx.Service.Sweep(records, ref)

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, result)
			}
			rows := make([][]string, 0, len(result.Closures))
			for _, c := range result.Closures {
				rows = append(rows, []string{c.CaseID, c.Reason})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, FormatTable([]string{"CASE", "REASON"}, rows))
			fmt.Fprintf(out, "\nevaluated=%d closures=%d skipped=%d\n",
				result.Evaluated, len(result.Closures), result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&casesFile, "file", "f", "", "case records file (YAML or JSON list)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
