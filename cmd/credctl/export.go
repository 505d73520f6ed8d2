package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a document for rendering",
	Long:  `Renders a document as Graphviz DOT, Cytoscape.js JSON or a plain-text outline.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "dot", "output format: dot, cytoscape or outline")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	content, err := render(model, exportFormat)
	if err != nil {
		return err
	}

	if exportOut == "" {
		fmt.Print(content)
		return nil
	}
	return os.WriteFile(exportOut, []byte(content), 0o644)
}

func render(model *argmap.Model, format string) (string, error) {
	switch format {
	case "dot":
		return export.NewDOTExporter().Export(model), nil
	case "cytoscape":
		return export.NewCytoscapeExporter().Export(model)
	case "outline":
		return export.NewOutlineExporter().Export(model), nil
	default:
		return "", fmt.Errorf("unknown format %q (want dot, cytoscape or outline)", format)
	}
}
