// Command dupecheck runs duplicate detection over a shopping list snapshot file
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dupecheck",
	Short: "Find items you already planned or bought",
	Long: `dupecheck compares a shopping list against earlier lists in a snapshot
file and reports items that look like duplicates, with a suggested action.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dupecheck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dupecheck %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}
