package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IvanBalandraCamacho/cvindex/internal/config"
	"github.com/IvanBalandraCamacho/cvindex/internal/jobs"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the CV folder and process new files",
		Long:  "Poll the configured CV folder and process files that are new or modified since the last scan, appending chunks to the JSONL output",
		RunE:  runWatch,
	}

	cmd.Flags().StringP("mapping", "m", "", "JSON file mapping CV filenames to owner keys")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdown := initTelemetry(cfg.Debug)
	defer shutdown()

	if _, err := os.Stat(cfg.CVFolder); err != nil {
		return fmt.Errorf("cv folder %s not accessible: %w", cfg.CVFolder, err)
	}

	processor, _, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	sink, err := storage.NewChunkWriter(cfg.ChunkOutput)
	if err != nil {
		return err
	}
	defer sink.Close()

	mappingPath, _ := cmd.Flags().GetString("mapping")
	indexWorker := jobs.NewIndexWorker(processor, sink, cfg.CVFolder, mappingPath)
	worker := jobs.NewWorker(indexWorker, cfg.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Start(ctx)
	log.Printf("watching %s (output: %s)", cfg.CVFolder, cfg.ChunkOutput)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down...")
	worker.Stop()
	return nil
}
