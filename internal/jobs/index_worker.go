package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
	"github.com/IvanBalandraCamacho/cvindex/internal/storage"
)

// BatchProcessor defines the interface for processing a set of CV files
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, mapping map[string]string) ([]domain.Chunk, *domain.BatchReport, error)
}

// ChunkSink receives the chunks produced by a processing run
type ChunkSink interface {
	Write(chunks []domain.Chunk) error
}

// IndexWorker watches the CV folder and processes files that are new or
// modified since the last poll. It implements the JobProcessor interface
// for the generic polling Worker.
type IndexWorker struct {
	processor   BatchProcessor
	sink        ChunkSink
	folder      string
	mappingPath string
	seen        map[string]time.Time
}

// NewIndexWorker creates a new IndexWorker instance
func NewIndexWorker(processor BatchProcessor, sink ChunkSink, folder, mappingPath string) *IndexWorker {
	return &IndexWorker{
		processor:   processor,
		sink:        sink,
		folder:      folder,
		mappingPath: mappingPath,
		seen:        make(map[string]time.Time),
	}
}

// ProcessJobs implements the JobProcessor interface. The mapping file is
// reloaded on every poll so new owner assignments take effect without a
// restart.
func (w *IndexWorker) ProcessJobs(ctx context.Context) error {
	mapping, err := storage.LoadMapping(w.mappingPath)
	if err != nil {
		return err
	}

	pending := make(map[string]string)
	modTimes := make(map[string]time.Time)
	for name, ownerKey := range mapping {
		info, err := os.Stat(filepath.Join(w.folder, name))
		if err != nil {
			// Mapped but not uploaded yet; picked up on a later poll.
			continue
		}
		if last, ok := w.seen[name]; ok && !info.ModTime().After(last) {
			continue
		}
		pending[name] = ownerKey
		modTimes[name] = info.ModTime()
	}

	if len(pending) == 0 {
		return nil
	}

	log.Printf("index worker: %d files pending", len(pending))

	chunks, report, err := w.processor.ProcessBatch(ctx, pending)
	if err != nil {
		return fmt.Errorf("failed to process pending files: %w", err)
	}

	if len(chunks) > 0 {
		if err := w.sink.Write(chunks); err != nil {
			return fmt.Errorf("failed to write chunks: %w", err)
		}
	}

	// Mark every attempted file as seen, including the ones that yielded
	// no chunks, so a permanently unreadable file is not retried forever.
	for name, mod := range modTimes {
		w.seen[name] = mod
	}

	log.Printf("index worker: processed=%d skipped=%d chunks=%d", report.Processed, report.Skipped, report.TotalChunks)
	return nil
}
