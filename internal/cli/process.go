package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanBalandraCamacho/cvindex/internal/config"
	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
	"github.com/IvanBalandraCamacho/cvindex/internal/extract"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
)

// ProcessCmd returns the process command
func ProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Process a single CV into retrieval chunks",
		Long:  "Extract, normalize and chunk one CV file, printing the chunks as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcess,
	}

	cmd.Flags().StringP("owner", "o", "", "Owner key the chunks belong to")
	cmd.Flags().String("out", "", "Append chunks to this JSONL file instead of stdout")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !extract.Supports(path) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}

	processor, vision, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	ownerKey, _ := cmd.Flags().GetString("owner")
	chunks, err := processor.ProcessFile(context.Background(), path, ownerKey)
	if err != nil {
		return err
	}
	if vision != nil {
		vision.Flush()
	}

	writer := storage.NewChunkWriterTo(cmd.OutOrStdout())
	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		fileWriter, err := storage.NewChunkWriter(outPath)
		if err != nil {
			return err
		}
		defer fileWriter.Close()
		writer = fileWriter
	}

	if err := writer.Write(chunks); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %d chunks\n", path, len(chunks))
	return nil
}
