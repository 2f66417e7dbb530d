package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

func TestVisionCache_MissingFileStartsEmpty(t *testing.T) {
	cache := LoadVisionCache(filepath.Join(t.TempDir(), "cache.json"))

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("deadbeef")
	assert.False(t, ok)
}

func TestVisionCache_PutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadVisionCache(path)
	cache.Put("abc123", "AWS Certified")
	require.NoError(t, cache.Flush())

	reloaded := LoadVisionCache(path)
	text, ok := reloaded.Get("abc123")
	assert.True(t, ok)
	assert.Equal(t, "AWS Certified", text)
}

func TestVisionCache_NegativeResultDistinctFromMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadVisionCache(path)
	cache.Put("nodata", "")
	require.NoError(t, cache.Flush())

	reloaded := LoadVisionCache(path)

	text, ok := reloaded.Get("nodata")
	assert.True(t, ok, "negative result must be a cache hit")
	assert.Empty(t, text)

	_, ok = reloaded.Get("neverseen")
	assert.False(t, ok, "absent key must be a miss")
}

func TestVisionCache_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cache := LoadVisionCache(path)
	assert.Equal(t, 0, cache.Len())
}

func TestVisionCache_FlushOnlyWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadVisionCache(path)
	require.NoError(t, cache.Flush())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean cache must not create a file")

	cache.Put("abc", "text")
	require.NoError(t, cache.Flush())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestChunkWriter_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")

	writer, err := NewChunkWriter(path)
	require.NoError(t, err)

	chunks := []domain.Chunk{
		domain.NewChunk("E123", 0, "First chunk of the document body", 1, "cv.pdf"),
		domain.NewChunk("E123", 1, "Second chunk with trailing context", 2, "cv.pdf"),
	}
	require.NoError(t, writer.Write(chunks))
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := splitNonEmptyLines(string(data))
	require.Len(t, lines, 2)

	var rec chunkRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "E123", rec.OwnerKey)
	assert.Equal(t, 0, rec.SequenceID)
	assert.Equal(t, "First chunk of the document body", rec.Text)
	assert.Equal(t, 1, rec.PageNumber)
	assert.Equal(t, "cv.pdf", rec.SourceDocument)
	assert.NotEmpty(t, rec.ID)
}

func TestChunkWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")

	writer, err := NewChunkWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write([]domain.Chunk{domain.NewChunk("A", 0, "first run", 1, "a.pdf")}))
	require.NoError(t, writer.Close())

	writer, err = NewChunkWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write([]domain.Chunk{domain.NewChunk("B", 0, "second run", 1, "b.pdf")}))
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, splitNonEmptyLines(string(data)), 2)
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
