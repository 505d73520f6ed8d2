package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credencelab/credence/internal/cpt"
	"github.com/credencelab/credence/internal/domain"
)

var (
	cptNode       string
	cptMaxParents int
)

var cptCmd = &cobra.Command{
	Use:   "cpt [file]",
	Short: "Generate conditional probability tables",
	Long: `Materializes the conditional probability table for every node in
the document, or for a single node with --node. Probabilities follow
each node's declared override when present, otherwise the noisy-OR
default parameterization.`,
	Args: cobra.ExactArgs(1),
	RunE: runCPT,
}

func init() {
	cptCmd.Flags().StringVar(&cptNode, "node", "", "generate for a single node id")
	cptCmd.Flags().IntVar(&cptMaxParents, "max-parents", cpt.DefaultMaxTableParents, "refuse tables beyond this many parents")
	rootCmd.AddCommand(cptCmd)
}

func runCPT(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	eng := cpt.NewEngine(model)
	eng.MaxTableParents = cptMaxParents

	var tables []*domain.Table
	if cptNode != "" {
		table, err := eng.Table(cptNode)
		if err != nil {
			return err
		}
		tables = append(tables, table)
	} else {
		for _, c := range model.Claims() {
			table, err := eng.Table(c.ID)
			if err != nil {
				return fmt.Errorf("node %s: %w", c.ID, err)
			}
			tables = append(tables, table)
		}
		for _, l := range model.Links() {
			table, err := eng.Table(l.ID)
			if err != nil {
				return fmt.Errorf("node %s: %w", l.ID, err)
			}
			tables = append(tables, table)
		}
	}

	out, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
