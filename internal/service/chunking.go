package service

import (
	"regexp"
	"strings"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

// ChunkConfig controls how document text is split for retrieval.
type ChunkConfig struct {
	// Size is the target chunk length in runes.
	Size int
	// Overlap is the number of trailing runes re-presented at the start
	// of the next chunk. Must be smaller than Size.
	Overlap int
}

// DefaultChunkConfig provides sane defaults for CV chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    500,
		Overlap: 100,
	}
}

// Validate rejects configurations that could stall the chunk loop.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Overlap >= c.Size {
		return domain.ErrInvalidChunkConfig
	}
	return nil
}

// Boundary separators in priority order. The text is whitespace-collapsed
// to a single line before splitting, so sentence ends rank first, then
// clause breaks, then plain word gaps. The same order applies to body and
// image-derived text.
var chunkSeparators = []string{". ", ", ", " "}

// minTailRunes stops the loop when advancing would leave a degenerate
// final micro-chunk.
const minTailRunes = 10

var whitespaceRuns = regexp.MustCompile(`\s+`)

// chunkText splits text into overlapping chunks, preferring natural
// boundaries. Boundary search runs backward from the window edge but no
// earlier than its midpoint; when no separator occurs in that range the
// window is cut at the raw size boundary.
func chunkText(text string, cfg ChunkConfig) []string {
	text = strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= cfg.Size {
		return []string{text}
	}

	chunks := make([]string, 0, 8)
	start := 0
	for start < len(runes) {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			if cut := findBoundary(runes, start+cfg.Size/2, end); cut > start {
				end = cut
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		// Overlap step, with a monotonic-advance guard so a boundary cut
		// near the window midpoint can never move start backward.
		next := end - cfg.Overlap
		if next <= start {
			next = end
		}
		start = next

		if start >= len(runes)-minTailRunes {
			break
		}
	}

	return chunks
}

// findBoundary returns the cut position immediately after the last
// occurrence of the highest-priority separator within [min, end), or 0
// when none is found.
func findBoundary(runes []rune, min, end int) int {
	if min < 0 {
		min = 0
	}
	for _, sep := range chunkSeparators {
		if pos := lastIndexRunes(runes, sep, min, end); pos >= 0 {
			return pos + len([]rune(sep))
		}
	}
	return 0
}

// lastIndexRunes finds the last occurrence of sep starting within
// [min, end) of the rune slice, returning its start position or -1.
func lastIndexRunes(runes []rune, sep string, min, end int) int {
	sepRunes := []rune(sep)
	for i := end - len(sepRunes); i >= min; i-- {
		if i < 0 {
			break
		}
		match := true
		for j, sr := range sepRunes {
			if runes[i+j] != sr {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
