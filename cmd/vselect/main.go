package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "vselect",
	Short: "Virtualized select for large option lists",
	Args:  cobra.MaximumNArgs(1),
	Long:  "vselect renders huge, grouped option lists in the terminal, keeps only the visible rows alive, and prints what you pick.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: pick
		return pickCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vselect %s\n", version)
	},
}

func init() {
	registerPickFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
