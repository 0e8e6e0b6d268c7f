package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/tschunk/internal/chunker"
	"github.com/mvp-joe/tschunk/internal/render"
	"github.com/spf13/cobra"
)

var graphChunkSize int

// graphCmd prints the Mermaid class diagram of a single file.
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print the Mermaid class diagram of a file",
	Long: `Graph renders the structural model of one file as a Mermaid classDiagram.

With --max-context-size the file is chunked first and the diagram of every
chunk is printed in order, each preceded by a "%% chunk N" comment.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntVar(&graphChunkSize, "max-context-size", 0, "Chunk the file with this budget and print one diagram per chunk")
}

func runGraph(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	if !cmd.Flags().Changed("max-context-size") {
		m, err := loadModel(path)
		if err != nil {
			return err
		}
		fmt.Fprint(out, render.Render(m).String())
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	chunks, err := chunker.Split(string(content), path, graphChunkSize)
	if err != nil {
		return fmt.Errorf("failed to chunk %s: %w", path, err)
	}
	for i, chunk := range chunks {
		fmt.Fprintf(out, "%%%% chunk %d\n", i+1)
		fmt.Fprint(out, chunk.Graph.String())
	}
	return nil
}
