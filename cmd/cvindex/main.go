package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanBalandraCamacho/cvindex/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cvindex",
		Short: "cvindex - CV chunking for semantic search",
		Long: `cvindex extracts text from CV documents (PDF/DOCX), runs vision OCR
on embedded images, and splits the result into overlapping chunks ready
for embedding and indexing.

Environment variables:
  CVINDEX_CV_FOLDER        Folder containing the CVs (default: cvs)
  CVINDEX_OPENAI_API_KEY   OpenAI API key for vision OCR (optional)
  CVINDEX_CHUNK_OUTPUT     Chunk output file (default: chunks.jsonl)`,
		Version: version,
	}

	rootCmd.AddCommand(cli.ProcessCmd())
	rootCmd.AddCommand(cli.BatchCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.FormatsCmd())
	rootCmd.AddCommand(cli.CacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
