// Package cli implements the cvindex commands.
package cli

import (
	"log"
	"os"

	"github.com/IvanBalandraCamacho/cvindex/internal/config"
	"github.com/IvanBalandraCamacho/cvindex/internal/openai"
	"github.com/IvanBalandraCamacho/cvindex/internal/service"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
	"github.com/IvanBalandraCamacho/cvindex/internal/telemetry"
)

// visionClient builds the OCR client. The prefixed config key wins;
// without one the conventional OPENAI_API_KEY variable is tried, so an
// already-exported key works without duplication.
func visionClient(cfg *config.Config) (*openai.Client, error) {
	if cfg.HasVision() {
		return openai.NewClientWithConfig(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			VisionModel: cfg.VisionModel,
			Timeout:     cfg.VisionTimeout,
		}), nil
	}
	return openai.NewClientFromEnv()
}

// buildProcessor wires a CVProcessor from configuration. Vision OCR is
// attached only when an API key is configured; its absence downgrades
// processing to body text only, it never fails a run.
func buildProcessor(cfg *config.Config) (*service.CVProcessor, *service.VisionService, error) {
	var vision *service.VisionService
	if cfg.UseVision {
		client, err := visionClient(cfg)
		if err != nil {
			log.Println("vision OCR disabled: no OpenAI API key configured")
		} else {
			cache := storage.LoadVisionCache(cfg.VisionCacheFile)
			vision = service.NewVisionService(client, cache, cfg.MinImageBytes, cfg.MaxImagesPerDoc)
		}
	}

	processor, err := service.NewCVProcessor(service.ProcessorConfig{
		Folder: cfg.CVFolder,
		Chunking: service.ChunkConfig{
			Size:    cfg.ChunkSize,
			Overlap: cfg.ChunkOverlap,
		},
		MinChunkChars: cfg.MinChunkChars,
		Debug:         cfg.Debug,
	}, vision)
	if err != nil {
		return nil, nil, err
	}
	return processor, vision, nil
}

// initTelemetry starts Sentry error reporting when SENTRY_DSN is set and
// returns the shutdown function.
func initTelemetry(debug bool) func() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return func() {}
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:         dsn,
		Environment: os.Getenv("ENVIRONMENT"),
		Debug:       debug,
	})
	if err != nil {
		log.Printf("telemetry init failed (continuing without error reporting): %v", err)
		return func() {}
	}
	return shutdown
}
