package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/chartbind/internal/rebind"
	"github.com/agentic-research/chartbind/internal/series"
)

var assignments []string

var mixedCmd = &cobra.Command{
	Use:   "mixed",
	Short: "Show measure properties shared or mixed across each chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), configPath, documentPath, chartName)
		if err != nil {
			return err
		}
		if err := s.rebindAll(); err != nil {
			return err
		}
		for _, a := range assignments {
			p, v, err := parseAssignment(a)
			if err != nil {
				return err
			}
			for _, c := range s.charts {
				if err := broadcast(c, p, v); err != nil {
					return err
				}
			}
		}
		for _, c := range s.charts {
			if err := writeMixed(cmd.OutOrStdout(), c); err != nil {
				return err
			}
		}
		return nil
	},
}

// broadcast writes v to every runtime measure of c under its write lock.
func broadcast(c *rebind.Container, p series.Property, v any) error {
	var err error
	c.EditRuntime(func(rt *rebind.Runtime) {
		err = series.NewView(rt.Aggregates()).Set(p, v)
	})
	return err
}

func init() {
	mixedCmd.Flags().StringArrayVar(&assignments, "set", nil, "Set property=value on every measure first")
	rootCmd.AddCommand(mixedCmd)
}
