package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "credctl",
	Short: "Inspect and transform argument graph documents",
	Long: `credctl works on argument graph documents stored as YAML files:
validate them, summarize their structure, generate conditional
probability tables and export them for rendering.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
