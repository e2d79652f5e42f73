package kbase

import (
	"context"
	"strings"
)

// UnknownLastUpdated marks a chunk whose source did not report a
// Last-Modified time.
const UnknownLastUpdated = "unknown"

// ChunkHeader is the provenance block persisted at the top of a chunk file.
type ChunkHeader struct {
	SourceURL      string `yaml:"source_url"`
	AuthorityLevel string `yaml:"authority_level"`
	Jurisdiction   string `yaml:"jurisdiction"`
	RetrievedAt    string `yaml:"retrieved_at"`
	LastUpdated    string `yaml:"last_updated"`
}

// Validate returns an error if the header is missing required fields.
func (h *ChunkHeader) Validate() error {
	if h.SourceURL == "" {
		return Errorf(EINVALID, "chunk header source_url required")
	}
	if h.RetrievedAt == "" {
		return Errorf(EINVALID, "chunk header retrieved_at required")
	}
	return nil
}

// Chunk is a word-windowed slice of an extracted document, persisted with
// provenance. Chunks are created once at write time and never mutated.
type Chunk struct {
	ID     string // content address: domain, source, URL hash and sequence
	Seq    int    // 1-based position within the page
	Path   string
	Text   string
	Header ChunkHeader
}

// ChunkBatch is the set of chunks extracted from a single page.
type ChunkBatch struct {
	SourceName string
	Header     ChunkHeader
	Texts      []string
}

// Validate returns an error if the batch contains invalid fields.
func (b *ChunkBatch) Validate() error {
	if b.SourceName == "" {
		return Errorf(EINVALID, "chunk batch source name required")
	}
	return b.Header.Validate()
}

// ChunkWriter persists chunks as individually addressable files.
type ChunkWriter interface {
	// WriteChunks writes one file per chunk text and returns the chunks
	// in sequence order.
	WriteChunks(ctx context.Context, batch *ChunkBatch) ([]*Chunk, error)
}

// ChunkText splits text into windows of size words that overlap by
// overlap words. The final window may be shorter. Consecutive chunks share
// exactly overlap words (except possibly the last) and every word appears
// in at least one chunk. An overlap >= size degrades to a step of one word.
func ChunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || size <= 0 {
		return nil
	}

	step := max(size-overlap, 1)
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := min(start+size, len(words))
		chunk := strings.TrimSpace(strings.Join(words[start:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
