package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/chartbind/internal/document"
)

var (
	xlsxPath string
	savePath string
)

var rebindCmd = &cobra.Command{
	Use:   "rebind",
	Short: "Bind every chart in the document against the configured universe",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), configPath, documentPath, chartName)
		if err != nil {
			return err
		}
		rerr := s.rebindAll()

		out := cmd.OutOrStdout()
		for _, c := range s.charts {
			writeRuntime(out, c)
		}

		if xlsxPath != "" {
			if err := exportRuntime(xlsxPath, s.charts); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported bindings to %s\n", xlsxPath)
		}
		if savePath != "" {
			abs, err := filepath.Abs(savePath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
				return err
			}
			fs := osfs.New(filepath.Dir(abs))
			if err := document.Save(fs, filepath.Base(abs), document.Encode(s.charts...)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved document to %s\n", savePath)
		}
		return rerr
	},
}

func init() {
	rebindCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Export resolved bindings to a spreadsheet")
	rebindCmd.Flags().StringVar(&savePath, "save", "", "Write the declarative document back out")
	rootCmd.AddCommand(rebindCmd)
}
