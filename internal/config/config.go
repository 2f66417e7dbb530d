package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	CVFolder string `envconfig:"CV_FOLDER" default:"cvs"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	ChunkSize     int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP" default:"100"`
	MinChunkChars int `envconfig:"MIN_CHUNK_CHARS" default:"20"`

	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	VisionModel   string        `envconfig:"VISION_MODEL" default:"gpt-4o-mini"`
	VisionTimeout time.Duration `envconfig:"VISION_TIMEOUT" default:"30s"`
	UseVision     bool          `envconfig:"USE_VISION" default:"true"`

	VisionCacheFile string `envconfig:"VISION_CACHE_FILE" default:"vision_cache.json"`
	MinImageBytes   int    `envconfig:"MIN_IMAGE_BYTES" default:"5000"`
	MaxImagesPerDoc int    `envconfig:"MAX_IMAGES_PER_DOC" default:"20"`

	ChunkOutput  string        `envconfig:"CHUNK_OUTPUT" default:"chunks.jsonl"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CVINDEX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects chunking parameters that could stall the chunk loop.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be non-negative and smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MinImageBytes < 0 {
		return fmt.Errorf("min image bytes must be non-negative, got %d", c.MinImageBytes)
	}
	if c.MaxImagesPerDoc <= 0 {
		return fmt.Errorf("max images per document must be positive, got %d", c.MaxImagesPerDoc)
	}
	return nil
}

func (c *Config) HasVision() bool {
	return c.UseVision && c.OpenAIAPIKey != ""
}
