package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var (
	groundingSource string
	groundingMinGap int
	groundingJSON   bool
)

var groundingCmd = &cobra.Command{
	Use:   "grounding [file]",
	Short: "Measure how well a document is anchored to its source text",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrounding,
}

func init() {
	groundingCmd.Flags().StringVarP(&groundingSource, "source", "s", "", "source text file the document was extracted from (required)")
	groundingCmd.Flags().IntVar(&groundingMinGap, "min-gap", 50, "minimum uncovered stretch to report, in characters")
	groundingCmd.Flags().BoolVar(&groundingJSON, "json", false, "emit JSON instead of text")
	_ = groundingCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(groundingCmd)
}

func runGrounding(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(groundingSource)
	if err != nil {
		return err
	}
	source := string(raw)

	stats := model.ComputeGroundingStats(source)
	gaps := model.GroundingGaps(source, groundingMinGap)

	if groundingJSON {
		out, err := json.MarshalIndent(map[string]any{"stats": stats, "gaps": gaps}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("grounded nodes:    %d\n", stats.GroundedNodes)
	types := make([]string, 0, len(stats.GroundedByType))
	for typ := range stats.GroundedByType {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Printf("  %-16s %d\n", typ+":", stats.GroundedByType[typ])
	}
	fmt.Printf("ungrounded nodes:  %d\n", stats.UngroundedNodes)
	fmt.Printf("coverage:          %.1f%%\n", stats.CoverageRatio*100)
	fmt.Printf("avg span length:   %.1f\n", stats.AvgSpanLength)

	if len(gaps) > 0 {
		fmt.Printf("gaps (>= %d chars):\n", groundingMinGap)
		for _, g := range gaps {
			fmt.Printf("  [%d, %d) %d chars\n", g.Start, g.End, g.End-g.Start)
		}
	}
	return nil
}
