package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

// chunkRecord is the wire shape consumed by the downstream indexing
// pipeline: one JSON object per line.
type chunkRecord struct {
	ID             string `json:"id"`
	OwnerKey       string `json:"owner_key"`
	SequenceID     int    `json:"sequence_id"`
	Text           string `json:"text"`
	PageNumber     int    `json:"page_number"`
	SourceDocument string `json:"source_document"`
}

// ChunkWriter emits chunks as JSON lines.
type ChunkWriter struct {
	enc    *json.Encoder
	closer io.Closer
}

// NewChunkWriter opens (or creates) the JSONL file at path for appending.
func NewChunkWriter(path string) (*ChunkWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk output %s: %w", path, err)
	}
	return &ChunkWriter{enc: json.NewEncoder(f), closer: f}, nil
}

// NewChunkWriterTo writes chunk lines to an arbitrary writer, such as
// stdout.
func NewChunkWriterTo(w io.Writer) *ChunkWriter {
	return &ChunkWriter{enc: json.NewEncoder(w)}
}

// Write appends the given chunks, one JSON line each.
func (w *ChunkWriter) Write(chunks []domain.Chunk) error {
	for _, chunk := range chunks {
		rec := chunkRecord{
			ID:             chunk.ID,
			OwnerKey:       chunk.OwnerKey,
			SequenceID:     chunk.SequenceID,
			Text:           chunk.Text,
			PageNumber:     chunk.PageNumber,
			SourceDocument: chunk.SourceDocument,
		}
		if err := w.enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write chunk %s/%d: %w", chunk.SourceDocument, chunk.SequenceID, err)
		}
	}
	return nil
}

// Close closes the underlying file, if any.
func (w *ChunkWriter) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
