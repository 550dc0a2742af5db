package biz

import (
	"strings"
)

// Chunker splits text into overlapping chunks sized for retrieval. Sizes
// are measured in runes so multibyte text does not split mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker. Size must be positive; overlap must be
// non-negative and smaller than size to be useful.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{size: size, overlap: overlap}
}

// isSentenceBoundary reports whether r ends a sentence.
func isSentenceBoundary(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}

// Chunk splits text into chunks of up to size runes with the configured
// overlap. Chunk ends prefer a sentence boundary found within the last 100
// runes of the window, but never before the window's midpoint. Whitespace
// is trimmed and empty chunks are dropped. Text that fits in a single
// chunk is returned as-is.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < n {
		end := start + c.size
		if end < n {
			// Scan backwards for a sentence boundary, stopping at the
			// window midpoint or 100 runes back, whichever comes first.
			lower := start + c.size/2
			if b := end - 100; b > lower {
				lower = b
			}
			for i := end; i > lower; i-- {
				if isSentenceBoundary(runes[i]) {
					end = i + 1
					break
				}
			}
		}

		sliceEnd := end
		if sliceEnd > n {
			sliceEnd = n
		}
		chunk := strings.TrimSpace(string(runes[start:sliceEnd]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would stall the scan; step past the chunk instead.
			next = end
		}
		start = next
	}
	return chunks
}
