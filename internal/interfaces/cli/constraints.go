package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

// newConstraintsCmd returns the perm-engine constraints subcommand.
func newConstraintsCmd() *cobra.Command {
	var (
		caseFile string
		field    string
	)

	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Resolve the legal date window for a field",
		Long:  "Compute the minimum and maximum legal values for one date field given the\nrest of the case, with the limiting factor when several rules compete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			facts, err := loadCaseFacts(caseFile)
			if err != nil {
				return err
			}

			c, err := cliCtx.Service.Engine().ResolveConstraints(permcase.Field(field), facts)
			if err != nil {
				return err
			}

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, c)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "field: %s\n", field)
			fmt.Fprintf(out, "min:   %s\n", dateOrDash(c.Min))
			fmt.Fprintf(out, "max:   %s\n", dateOrDash(c.Max))
			if c.LimitingFactor != "" {
				fmt.Fprintf(out, "limiting factor: %s\n", c.LimitingFactor)
			}
			if c.Hint != "" {
				fmt.Fprintf(out, "hint:  %s\n", c.Hint)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "file", "f", "", "case snapshot file (YAML or JSON)")
	cmd.Flags().StringVar(&field, "field", "", "date field name, e.g. eta9089FilingDate")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func dateOrDash(d *permcase.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
