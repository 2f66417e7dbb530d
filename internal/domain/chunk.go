package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Chunk represents a retrieval-ready fragment of a CV document.
// Chunks are immutable once created and are consumed by the downstream
// embedding/indexing pipeline.
type Chunk struct {
	ID             string
	OwnerKey       string
	SequenceID     int
	Text           string
	PageNumber     int // 0 for formats without pagination and for image-derived text
	SourceDocument string
	CreatedAt      time.Time
}

// NewChunk creates a new Chunk instance
func NewChunk(ownerKey string, sequenceID int, text string, pageNumber int, sourceDocument string) Chunk {
	return Chunk{
		ID:             uuid.New().String(),
		OwnerKey:       ownerKey,
		SequenceID:     sequenceID,
		Text:           text,
		PageNumber:     pageNumber,
		SourceDocument: sourceDocument,
		CreatedAt:      time.Now(),
	}
}

// ImageRecord represents an embedded raster image extracted from a
// document and awaiting vision OCR.
type ImageRecord struct {
	PageNumber  int // 0 for formats without pagination
	ImageIndex  int
	Data        []byte
	ContentHash string
}

// NewImageRecord creates an ImageRecord, computing the content hash used
// as the vision-cache key.
func NewImageRecord(pageNumber, imageIndex int, data []byte) ImageRecord {
	sum := sha256.Sum256(data)
	return ImageRecord{
		PageNumber:  pageNumber,
		ImageIndex:  imageIndex,
		Data:        data,
		ContentHash: hex.EncodeToString(sum[:]),
	}
}

// BatchReport summarizes the outcome of a batch processing run.
type BatchReport struct {
	Processed   int
	Skipped     int
	TotalChunks int
}
