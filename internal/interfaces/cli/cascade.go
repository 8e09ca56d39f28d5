package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

// newCascadeCmd returns the perm-engine cascade subcommand.
func newCascadeCmd() *cobra.Command {
	var (
		caseFile   string
		field      string
		value      string
		clear      bool
		entryIndex int
	)

	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Apply a field change with derived-date propagation",
		Long:  "Set one case field and recompute every date derived from it, then print\nthe resulting snapshot. The input file is never modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			facts, err := loadCaseFacts(caseFile)
			if err != nil {
				return err
			}

			change := permcase.Change{Field: permcase.Field(field)}
			if !clear {
				change.Value, err = coerceFlagValue(change.Field, value)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("entry-index") {
				change.EntryIndex = &entryIndex
			}

			out, err := cliCtx.Service.ApplyChange(*facts, change)
			if err != nil {
				return err
			}

			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, out)
			}
			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "file", "f", "", "case snapshot file (YAML or JSON)")
	cmd.Flags().StringVar(&field, "field", "", "field name, e.g. pwdDeterminationDate")
	cmd.Flags().StringVar(&value, "value", "", "new value; dates as YYYY-MM-DD")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the field instead of setting a value")
	cmd.Flags().IntVar(&entryIndex, "entry-index", 0, "RFI/RFE entry index for the received-date fields")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

// coerceFlagValue converts the flat --value string into the typed value the
// cascade engine expects for the non-string fields.
func coerceFlagValue(field permcase.Field, raw string) (interface{}, error) {
	switch field {
	case permcase.FieldApplicantCount:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("--value for %s must be an integer: %w", field, err)
		}
		return n, nil
	case permcase.FieldIsProfessional:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("--value for %s must be a boolean: %w", field, err)
		}
		return b, nil
	default:
		return raw, nil
	}
}
