package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/chartbind/internal/format"
)

var fieldName string

var resolveCmd = &cobra.Command{
	Use:   "resolve [attribute...]",
	Short: "Show the effective text format attributes of declared fields",
	Long: `Resolve prints, for each declared field, the effective value of the
requested attributes and the tier that supplied it (user, stylesheet or
default). With no arguments every attribute is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttributes(args)
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), configPath, documentPath, chartName)
		if err != nil {
			return err
		}
		n := 0
		for _, c := range s.charts {
			n += writeResolved(cmd.OutOrStdout(), s.resolver, c, fieldName, attrs)
		}
		if n == 0 && fieldName != "" {
			return fmt.Errorf("field %q not found", fieldName)
		}
		return nil
	},
}

func parseAttributes(names []string) ([]format.Attribute, error) {
	if len(names) == 0 {
		return format.Attributes(), nil
	}
	out := make([]format.Attribute, 0, len(names))
	for _, n := range names {
		a, err := format.ParseAttribute(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func init() {
	resolveCmd.Flags().StringVarP(&fieldName, "field", "f", "", "Only resolve the named field")
	rootCmd.AddCommand(resolveCmd)
}
