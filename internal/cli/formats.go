package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvanBalandraCamacho/cvindex/internal/config"
	"github.com/IvanBalandraCamacho/cvindex/internal/extract"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
)

// FormatsCmd returns the formats command
func FormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Show supported document formats and capabilities",
		RunE:  runFormats,
	}
}

func runFormats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "supported formats: %s\n", strings.Join(extract.SupportedFormats(), ", "))

	visionEnabled := false
	if cfg.UseVision {
		if _, err := visionClient(cfg); err == nil {
			visionEnabled = true
		}
	}
	if visionEnabled {
		fmt.Fprintf(out, "vision OCR: enabled (model: %s)\n", cfg.VisionModel)
	} else {
		fmt.Fprintln(out, "vision OCR: disabled")
	}
	return nil
}

// CacheCmd returns the cache command
func CacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show vision cache statistics",
		RunE:  runCache,
	}
}

func runCache(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cache := storage.LoadVisionCache(cfg.VisionCacheFile)
	fmt.Fprintf(cmd.OutOrStdout(), "cache file: %s\nentries: %d\n", cache.Path(), cache.Len())
	return nil
}
