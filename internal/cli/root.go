package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tschunk",
	Short: "tschunk - structure-aware chunking for TypeScript sources",
	Long: `tschunk splits TypeScript and JavaScript files into chunks that respect
declaration boundaries, and pairs every chunk with a Mermaid class diagram
describing the classes, interfaces, functions, imports and exports it contains.

Records are appended to a JSONL file as {file, chunk, code, mermaidMarkdown}.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
