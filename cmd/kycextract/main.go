// kycextract pulls the dashboard JSON payload out of a legacy HTML report
// and writes the canonical snapshot file the dashboard server reads.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/extract"
)

var outputPath string

var rootCmd = &cobra.Command{
	Use:   "kycextract <report.html>",
	Short: "Extract the dashboard snapshot from an HTML report",
	Long: `Locates the dashboard-data block embedded in a KYC report HTML file,
validates its JSON payload and writes it as the canonical snapshot file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := extract.Extract(args[0], outputPath)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Extraction failed: %v\n", err)
			os.Exit(1)
		}
		color.New(color.FgGreen).Printf("Wrote %s with %d records.\n", outputPath, count)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "./data/dashboard_data.json",
		"where to write the extracted snapshot JSON")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
