// Package cmd implements the command-line interface for doctracer.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/doctracer/cmd/common"
	"github.com/jonesrussell/doctracer/cmd/scan"
	"github.com/jonesrussell/doctracer/cmd/signatures"
)

// Version is the release version, set at build time with -ldflags.
var Version = "dev"

// NewRootCommand builds the doctracer command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctracer",
		Short: "Scan documents for textual defect signatures",
		Long: `doctracer retrieves documents from URLs, extracts their text and reports
passages matching a taxonomy of categorized defect signatures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String(
		common.FlagConfig,
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().Bool(common.FlagDebug, false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "doctracer version %s\n", Version)
		},
	})

	rootCmd.AddCommand(scan.Command())
	rootCmd.AddCommand(signatures.Command())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
