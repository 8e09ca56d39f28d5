package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/application/casetrack"
)

// newCalendarCmd returns the perm-engine calendar subcommand.
func newCalendarCmd() *cobra.Command {
	var (
		casesFile string
		ical      bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Derive calendar events from active deadlines",
		Long:  "Map every active deadline across a set of cases to an all-day calendar\nevent. Superseded deadlines produce no event. With --ical the events are\nemitted as an iCalendar feed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			records, err := loadCaseRecords(casesFile)
			if err != nil {
				return err
			}

			events := cliCtx.Service.BuildCalendar(records)

			if ical {
				_, writeErr := cmd.OutOrStdout().Write(casetrack.ExportICal(events))
				return writeErr
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, events)
			}

			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{ev.Date.String(), ev.CaseID, ev.Title})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable([]string{"DATE", "CASE", "TITLE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&casesFile, "file", "f", "", "case records file (YAML or JSON list)")
	cmd.Flags().BoolVar(&ical, "ical", false, "emit an iCalendar feed instead of a listing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
