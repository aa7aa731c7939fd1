package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	documentPath string
	chartName    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chartbind.hcl", "Path to HCL configuration")
	rootCmd.PersistentFlags().StringVarP(&documentPath, "document", "d", "", "Path to chart document (JSON)")
	rootCmd.PersistentFlags().StringVar(&chartName, "chart", "", "Only process the named chart")
}

var rootCmd = &cobra.Command{
	Use:          "chartbind",
	Short:        "Resolve chart field bindings against a column universe",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
