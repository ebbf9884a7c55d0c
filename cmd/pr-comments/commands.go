package main

import (
	"github.com/spf13/cobra"

	"github.com/reillywatson/prcomments/internal/config"
	"github.com/reillywatson/prcomments/internal/report"
)

var exportFormat string

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count comments per type and PRs with and without discussion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "Counting PR comments...", func(cfg *config.Config) (report.Mode, error) {
			return report.NewCountSummary(resolvePath(cfg, report.CountsFile), cmd.OutOrStdout()), nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Write every comment with a per-type and per-user summary as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "Listing PR comments...", func(cfg *config.Config) (report.Mode, error) {
			return report.NewFlatList(resolvePath(cfg, report.ListFile), cmd.OutOrStdout()), nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one row per comment as CSV (UTF-8 with BOM) or a JSON array",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "Exporting PR comments...", func(cfg *config.Config) (report.Mode, error) {
			name := report.CSVExportFile
			if exportFormat == "json" {
				name = report.JSONExportFile
			}
			return report.NewExport(exportFormat, resolvePath(cfg, name), cmd.OutOrStdout())
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{countCmd, listCmd, exportCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (overrides --output-dir and the default file name)")
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format (csv or json)")
}
