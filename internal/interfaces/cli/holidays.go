package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

// newHolidaysCmd returns the perm-engine holidays subcommand.
func newHolidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List observed federal holidays for a year",
		Long:  "Print the observed US federal holiday dates used by the business-day\ncalendar, including weekend observance shifts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if year == 0 {
				year = time.Now().Year()
			}
			if year < 1900 || year > 2200 {
				return fmt.Errorf("year %d out of supported range", year)
			}

			dates := permcase.ObservedFederalHolidays(year)

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, dates)
			}
			out := cmd.OutOrStdout()
			for _, d := range dates {
				fmt.Fprintf(out, "%s  %s\n", d.String(), d.Weekday())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current year)")

	return cmd
}
