package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

// newValidateCmd returns the perm-engine validate subcommand.
func newValidateCmd() *cobra.Command {
	var caseFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a case snapshot against the sequencing rules",
		Long:  "Run the full validator set over a case snapshot and report every rule\nviolation. Warnings are advisory; the command fails only on errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			facts, err := loadCaseFacts(caseFile)
			if err != nil {
				return err
			}

			res := cliCtx.Service.Validate(facts)

			if cliCtx.OutputFormat == "json" {
				if err := PrintResult(cmd, res); err != nil {
					return err
				}
			} else {
				printFindings(cmd, res)
			}

			if !res.Valid {
				return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "file", "f", "", "case snapshot file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printFindings(cmd *cobra.Command, res permcase.ValidationResult) {
	if res.Valid && len(res.Warnings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "OK: no findings")
		return
	}

	rows := make([][]string, 0, len(res.Errors)+len(res.Warnings))
	for _, lst := range [][]permcase.Finding{res.Errors, res.Warnings} {
		for _, f := range lst {
			entry := ""
			if f.EntryIndex >= 0 {
				entry = strconv.Itoa(f.EntryIndex)
			}
			rows = append(rows, []string{
				string(f.Severity), f.Rule, string(f.Field), entry, f.Message,
			})
		}
	}
	fmt.Fprint(cmd.OutOrStdout(),
		FormatTable([]string{"SEVERITY", "RULE", "FIELD", "ENTRY", "MESSAGE"}, rows))
}
