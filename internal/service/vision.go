package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
	"github.com/IvanBalandraCamacho/cvindex/internal/extract"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
)

// ImageTextClient defines the interface for vision OCR on a single image
type ImageTextClient interface {
	ExtractImageText(ctx context.Context, data []byte) (string, error)
}

type imageExtractor func(path string, minBytes, maxImages int) ([]domain.ImageRecord, error)

// VisionService extracts text from images embedded in CV documents,
// consulting the content-hash cache before every model call.
type VisionService struct {
	client        ImageTextClient
	cache         *storage.VisionCache
	minImageBytes int
	maxImages     int
	extractors    map[string]imageExtractor
}

// NewVisionService creates a new VisionService instance
func NewVisionService(client ImageTextClient, cache *storage.VisionCache, minImageBytes, maxImages int) *VisionService {
	return &VisionService{
		client:        client,
		cache:         cache,
		minImageBytes: minImageBytes,
		maxImages:     maxImages,
		extractors: map[string]imageExtractor{
			extract.FormatPDF:  extract.PDFImages,
			extract.FormatDocx: extract.DocxImages,
			extract.FormatDoc:  extract.DocxImages,
		},
	}
}

// DocumentImageText runs vision OCR over every qualifying embedded image
// of one document and returns the per-image texts as one block, each line
// tagged with its page of origin. Failures are contained per image: an
// OCR error is logged and skipped without writing a cache entry, so the
// image is retried on a future run.
func (s *VisionService) DocumentImageText(ctx context.Context, path string) string {
	extractImages, ok := s.extractors[extract.Ext(path)]
	if !ok {
		log.Printf("vision: unsupported format for %s", path)
		return ""
	}

	records, err := extractImages(path, s.minImageBytes, s.maxImages)
	if err != nil {
		log.Printf("vision: failed to extract images from %s: %v", path, err)
		return ""
	}
	if len(records) == 0 {
		return ""
	}

	log.Printf("vision: processing %d images from %s", len(records), path)

	var parts []string
	for _, rec := range records {
		text, cached := s.cache.Get(rec.ContentHash)
		if !cached {
			text, err = s.client.ExtractImageText(ctx, rec.Data)
			if err != nil {
				log.Printf("vision: OCR failed for image %d on page %d of %s: %v", rec.ImageIndex, rec.PageNumber, path, err)
				continue
			}
			// Cache positive results and explicit negatives alike; an
			// empty string records "checked, no text found".
			s.cache.Put(rec.ContentHash, text)
		}

		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", pageMarker(rec.PageNumber), text))
	}

	return strings.Join(parts, "\n")
}

// Flush persists the vision cache. Write failures are logged, not fatal:
// the cache is an optimization, not a correctness dependency.
func (s *VisionService) Flush() {
	if err := s.cache.Flush(); err != nil {
		log.Printf("vision: %v", err)
	}
}

func pageMarker(page int) string {
	if page > 0 {
		return fmt.Sprintf("[Image p.%d]", page)
	}
	return "[Image]"
}
