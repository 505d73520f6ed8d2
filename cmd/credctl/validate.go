package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate argument graph documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		if _, err := loadModel(path); err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
	}
	return nil
}

func loadModel(path string) (*argmap.Model, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return argmap.Build(doc)
}
