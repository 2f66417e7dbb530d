// Package openai wraps the OpenAI API for vision-based text extraction.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultVisionModel is the OpenAI model used for image transcription
	DefaultVisionModel = openai.GPT4oMini
	// DefaultTimeout bounds a single vision request
	DefaultTimeout = 30 * time.Second

	// noTextSentinel is the reserved model response meaning no legible text
	noTextSentinel = "NO_TEXT"

	maxResponseTokens = 1024
	temperature       = 0.1
)

// visionPrompt instructs the model to transcribe everything visible in a
// CV image and to answer with the sentinel when nothing is legible.
const visionPrompt = `Analyze this image from a CV/resume and extract ALL visible text.

Pay special attention to:
- Certifications and badges (AWS, Azure, Google Cloud, Scrum, PMP, etc.)
- Logos containing company or technology names
- Academic degrees and diplomas
- Course and training names
- Dates and time periods
- Any other text relevant to the professional profile

Respond ONLY with the extracted text, without additional explanations.
If there is no legible text, respond "NO_TEXT".`

// noTextResponses are model answers equivalent to the sentinel. They must
// never be surfaced as extracted content.
var noTextResponses = map[string]bool{
	noTextSentinel:  true,
	"NO_TEXT_FOUND": true,
	"NO TEXT":       true,
	"SIN_TEXTO":     true,
}

var (
	// ErrEmptyImage is returned when the image payload is empty
	ErrEmptyImage = errors.New("image data cannot be empty")
	// ErrNoAPIKey is returned when the OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// VisionAPI defines the interface for image transcription
type VisionAPI interface {
	TranscribeImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Client wraps the OpenAI API client for vision OCR
type Client struct {
	api VisionAPI
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string, timeout time.Duration) *OpenAIAdapter {
	if model == "" {
		model = DefaultVisionModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// TranscribeImage sends one image to the vision model and returns the raw
// model response.
func (a *OpenAIAdapter) TranscribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   maxResponseTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey      string
	VisionModel string
	Timeout     time.Duration
}

// NewClient creates a new vision client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new vision client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	return &Client{
		api: NewOpenAIAdapter(cfg.APIKey, cfg.VisionModel, cfg.Timeout),
	}
}

// NewClientFromEnv creates a new vision client using the OPENAI_API_KEY
// environment variable. A missing key is a configuration error reported
// once at startup, not on every call.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// ExtractImageText runs vision OCR on a single image. An empty result
// with a nil error means the model found no legible text; that outcome is
// distinct from a transport error, which callers must not cache.
func (c *Client) ExtractImageText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	text, err := c.api.TranscribeImage(ctx, data, SniffMIMEType(data))
	if err != nil {
		return "", fmt.Errorf("failed to transcribe image: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || noTextResponses[strings.ToUpper(text)] {
		return "", nil
	}
	return text, nil
}

var (
	pngSignature  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegSignature = []byte{0xff, 0xd8}
)

// SniffMIMEType detects the image MIME type from the byte signature.
// Filenames are not trusted; unknown signatures default to PNG.
func SniffMIMEType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return "image/png"
	case bytes.HasPrefix(data, jpegSignature):
		return "image/jpeg"
	default:
		return "image/png"
	}
}
