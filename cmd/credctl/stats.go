package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize the structure of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	stats := model.ComputeStats()

	if statsJSON {
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("claims:            %d\n", stats.Claims)
	for typ, n := range stats.ClaimsByType {
		fmt.Printf("  %-16s %d\n", typ+":", n)
	}
	fmt.Printf("links:             %d\n", stats.Links)
	for pol, n := range stats.LinksByPolarity {
		fmt.Printf("  %-16s %d\n", pol+":", n)
	}
	fmt.Printf("multi-source:      %d (%.0f%%)\n", stats.MultiSourceLinks, stats.MultiSourceFraction*100)
	fmt.Printf("undercut edges:    %d\n", stats.UndercutEdges)
	fmt.Printf("max depth:         %d\n", stats.MaxDepth)

	if ungrounded := model.UngroundedPropositions(); len(ungrounded) > 0 {
		fmt.Printf("ungrounded:        %v\n", ungrounded)
	}
	if isolated := model.IsolatedClaims(); len(isolated) > 0 {
		fmt.Printf("isolated:          %v\n", isolated)
	}
	return nil
}
