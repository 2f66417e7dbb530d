package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

type countingProcessor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProcessor) ProcessJobs(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *countingProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestWorker_PollsUntilStopped(t *testing.T) {
	processor := &countingProcessor{}
	worker := NewWorker(processor, 10*time.Millisecond)

	go worker.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	worker.Stop()

	assert.Greater(t, processor.callCount(), 0)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	processor := &countingProcessor{}
	worker := NewWorker(processor, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestWorker_KeepsPollingAfterError(t *testing.T) {
	processor := &countingProcessor{err: errors.New("transient failure")}
	worker := NewWorker(processor, 10*time.Millisecond)

	go worker.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	worker.Stop()

	assert.Greater(t, processor.callCount(), 1, "errors must not stop the poll loop")
}

type recordingBatchProcessor struct {
	batches []map[string]string
	chunks  []domain.Chunk
}

func (p *recordingBatchProcessor) ProcessBatch(_ context.Context, mapping map[string]string) ([]domain.Chunk, *domain.BatchReport, error) {
	copied := make(map[string]string, len(mapping))
	for k, v := range mapping {
		copied[k] = v
	}
	p.batches = append(p.batches, copied)
	return p.chunks, &domain.BatchReport{Processed: len(mapping), TotalChunks: len(p.chunks)}, nil
}

type recordingSink struct {
	written []domain.Chunk
}

func (s *recordingSink) Write(chunks []domain.Chunk) error {
	s.written = append(s.written, chunks...)
	return nil
}

func writeMapping(t *testing.T, dir string, mapping map[string]string) string {
	t.Helper()
	data, err := json.Marshal(mapping)
	require.NoError(t, err)
	path := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestIndexWorker_ProcessesNewFilesOnce(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "cv.pdf"), []byte("data"), 0o644))

	mappingPath := writeMapping(t, t.TempDir(), map[string]string{"cv.pdf": "E001"})

	chunk := domain.NewChunk("E001", 0, "some chunk text for the sink", 1, "cv.pdf")
	processor := &recordingBatchProcessor{chunks: []domain.Chunk{chunk}}
	sink := &recordingSink{}
	worker := NewIndexWorker(processor, sink, folder, mappingPath)

	ctx := context.Background()
	require.NoError(t, worker.ProcessJobs(ctx))
	require.NoError(t, worker.ProcessJobs(ctx))

	require.Len(t, processor.batches, 1, "an unchanged file must not be reprocessed")
	assert.Equal(t, map[string]string{"cv.pdf": "E001"}, processor.batches[0])
	assert.Len(t, sink.written, 1)
}

func TestIndexWorker_ReprocessesModifiedFiles(t *testing.T) {
	folder := t.TempDir()
	path := filepath.Join(folder, "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	mappingPath := writeMapping(t, t.TempDir(), map[string]string{"cv.pdf": "E001"})

	processor := &recordingBatchProcessor{}
	worker := NewIndexWorker(processor, &recordingSink{}, folder, mappingPath)

	ctx := context.Background()
	require.NoError(t, worker.ProcessJobs(ctx))

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, worker.ProcessJobs(ctx))

	assert.Len(t, processor.batches, 2)
}

func TestIndexWorker_SkipsUnmappedAndMissingFiles(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "unmapped.pdf"), []byte("data"), 0o644))

	mappingPath := writeMapping(t, t.TempDir(), map[string]string{"not_uploaded.pdf": "E002"})

	processor := &recordingBatchProcessor{}
	worker := NewIndexWorker(processor, &recordingSink{}, folder, mappingPath)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	assert.Empty(t, processor.batches, "nothing eligible means no batch run")
}

func TestIndexWorker_MissingMappingFile(t *testing.T) {
	worker := NewIndexWorker(&recordingBatchProcessor{}, &recordingSink{}, t.TempDir(), filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, worker.ProcessJobs(context.Background()))
}
