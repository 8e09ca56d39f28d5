package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/application/casetrack"
)

// deadlineReportOutput is the JSON envelope for the deadlines command.
type deadlineReportOutput struct {
	Deadlines []casetrack.DeadlineReportRow `json:"deadlines"`
	Auxiliary []casetrack.AuxDeadline       `json:"auxiliary,omitempty"`
}

// newDeadlinesCmd returns the perm-engine deadlines subcommand.
func newDeadlinesCmd() *cobra.Command {
	var (
		caseFile   string
		asOf       string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "Report deadline activation and due dates for a case",
		Long:  "Evaluate every deadline type against a case snapshot: whether it is still\nlive, why it was superseded if not, and its due date with urgency relative\nto the reference date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			facts, err := loadCaseFacts(caseFile)
			if err != nil {
				return err
			}
			ref, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			rows, err := cliCtx.Service.DeadlineReport(facts, ref)
			if err != nil {
				return err
			}
			if activeOnly {
				filtered := rows[:0]
				for _, r := range rows {
					if r.Active {
						filtered = append(filtered, r)
					}
				}
				rows = filtered
			}

			aux := cliCtx.Service.AuxDeadlines(facts)

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, deadlineReportOutput{Deadlines: rows, Auxiliary: aux})
			}
			printDeadlineTable(cmd, rows)
			if len(aux) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out)
				for _, a := range aux {
					fmt.Fprintf(out, "%s: %s\n", a.Name, a.Due)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "file", "f", "", "case snapshot file (YAML or JSON)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "hide superseded deadlines")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printDeadlineTable(cmd *cobra.Command, rows []casetrack.DeadlineReportRow) {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		state := "active"
		if !r.Active {
			state = "superseded: " + string(r.SupersededReason)
		}
		due, daysLeft, urgency := "-", "-", "-"
		if r.Due != nil {
			due = r.Due.String()
			daysLeft = strconv.Itoa(*r.DaysLeft)
			urgency = string(r.Urgency)
		}
		table = append(table, []string{string(r.DeadlineType), state, due, daysLeft, urgency})
	}
	fmt.Fprint(cmd.OutOrStdout(),
		FormatTable([]string{"DEADLINE", "STATE", "DUE", "DAYS LEFT", "URGENCY"}, table))
}
