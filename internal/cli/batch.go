package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanBalandraCamacho/cvindex/internal/config"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
	"github.com/IvanBalandraCamacho/cvindex/internal/telemetry"
)

// BatchCmd returns the batch command
func BatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every mapped CV in the folder",
		Long:  "Process all CVs in the configured folder whose filename appears in the owner mapping, appending chunks to the JSONL output",
		RunE:  runBatch,
	}

	cmd.Flags().StringP("mapping", "m", "", "JSON file mapping CV filenames to owner keys")
	cmd.Flags().String("out", "", "Chunk output file (overrides CVINDEX_CHUNK_OUTPUT)")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdown := initTelemetry(cfg.Debug)
	defer shutdown()

	mappingPath, _ := cmd.Flags().GetString("mapping")
	mapping, err := storage.LoadMapping(mappingPath)
	if err != nil {
		return err
	}

	processor, _, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	chunks, report, err := processor.ProcessBatch(context.Background(), mapping)
	if err != nil {
		telemetry.CaptureError(err)
		return err
	}

	outPath := cfg.ChunkOutput
	if flagOut, _ := cmd.Flags().GetString("out"); flagOut != "" {
		outPath = flagOut
	}

	writer, err := storage.NewChunkWriter(outPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.Write(chunks); err != nil {
		telemetry.CaptureError(err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "processed: %d\nskipped: %d\ntotal chunks: %d\noutput: %s\n",
		report.Processed, report.Skipped, report.TotalChunks, outPath)
	return nil
}
