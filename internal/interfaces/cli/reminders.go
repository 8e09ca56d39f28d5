package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/application/casetrack"
)

// newRemindersCmd returns the perm-engine reminders subcommand.
func newRemindersCmd() *cobra.Command {
	var (
		casesFile string
		asOf      string
		offsets   []int
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Plan reminder notifications for active deadlines",
		Long:  "Compute the reminder schedule for a set of cases. Each active deadline\ngets one reminder per configured offset; send dates already in the past\nare dropped.",
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

			plan := offsets
			if len(plan) == 0 {
				plan = cliCtx.Config.Reminders.OffsetsDays
			}

			var reminders []casetrack.Reminder
			for _, rec := range records {
				reminders = append(reminders, cliCtx.Service.PlanReminders(rec, ref, plan)...)
			}

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, reminders)
			}
			rows := make([][]string, 0, len(reminders))
			for _, r := range reminders {
				rows = append(rows, []string{
					r.SendOn.String(), r.CaseID, string(r.DeadlineType),
					r.Due.String(), strconv.Itoa(r.DaysBefore),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(),
				FormatTable([]string{"SEND ON", "CASE", "DEADLINE", "DUE", "DAYS BEFORE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&casesFile, "file", "f", "", "case records file (YAML or JSON list)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default: today)")
	cmd.Flags().IntSliceVar(&offsets, "offsets", nil, "days-before offsets (default: from config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
