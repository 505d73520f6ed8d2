package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

var (
	subgraphUp     int
	subgraphDown   int
	subgraphFormat string
)

var subgraphCmd = &cobra.Command{
	Use:   "subgraph [file] [node]",
	Short: "Extract the neighborhood of a node",
	Long: `Extracts the depth-bounded neighborhood of a node as a standalone
document and renders it. Depth -1 means unbounded in that direction.`,
	Args: cobra.ExactArgs(2),
	RunE: runSubgraph,
}

func init() {
	subgraphCmd.Flags().IntVar(&subgraphUp, "up", -1, "upstream depth bound")
	subgraphCmd.Flags().IntVar(&subgraphDown, "down", -1, "downstream depth bound")
	subgraphCmd.Flags().StringVarP(&subgraphFormat, "format", "f", "outline", "output format: dot, cytoscape or outline")
	rootCmd.AddCommand(subgraphCmd)
}

func runSubgraph(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	up, down := subgraphUp, subgraphDown
	if up < 0 {
		up = math.MaxInt
	}
	if down < 0 {
		down = math.MaxInt
	}
	sub, err := model.Subgraph(args[1], up, down)
	if err != nil {
		return err
	}

	content, err := render(sub, subgraphFormat)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}
