// Package fs provides file-based storage for knowledge chunks: the chunk
// file codec, the chunk writer used during crawling and the corpus loader
// used at service startup.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/kbase"
)

// Ext is the chunk file extension.
const Ext = ".md"

// urlHashLen is the number of hex characters of the URL digest kept in
// chunk filenames.
const urlHashLen = 10

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases value and collapses every run of characters outside
// [a-z0-9] into a single hyphen. An empty result becomes "doc".
func Slugify(value string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(value), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "doc"
	}
	return s
}

// URLHash returns the first 10 hex characters of the SHA-256 of rawURL.
func URLHash(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:urlHashLen]
}

// ChunkBaseName returns the stable slug shared by every chunk of a page:
// domain, source name and URL hash.
// Example: https://www.ftc.gov:443/a, "FTC Guides" → www-ftc-gov-443-ftc-guides-<hash>
func ChunkBaseName(rawURL, sourceName string) string {
	domain := strings.ReplaceAll(kbase.URLDomain(rawURL), ":", "-")
	return Slugify(domain + "-" + sourceName + "-" + URLHash(rawURL))
}

// ChunkFileName returns the filename of the seq-th chunk (1-based).
func ChunkFileName(baseName string, seq int) string {
	return fmt.Sprintf("%s-chunk-%03d%s", baseName, seq, Ext)
}

// Ensure ChunkWriter implements kbase.ChunkWriter at compile time.
var _ kbase.ChunkWriter = (*ChunkWriter)(nil)

// ChunkWriter writes chunks as individual files in a directory.
type ChunkWriter struct {
	baseDir string
}

// NewChunkWriter creates a new ChunkWriter that writes to baseDir.
func NewChunkWriter(baseDir string) *ChunkWriter {
	return &ChunkWriter{baseDir: baseDir}
}

// WriteChunks writes one file per chunk text. Each file is written to a
// temporary name and renamed into place so loaders never see partial files.
func (w *ChunkWriter) WriteChunks(ctx context.Context, batch *kbase.ChunkBatch) ([]*kbase.Chunk, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	if len(batch.Texts) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return nil, err
	}

	base := ChunkBaseName(batch.Header.SourceURL, batch.SourceName)
	chunks := make([]*kbase.Chunk, 0, len(batch.Texts))
	for i, text := range batch.Texts {
		if err := ctx.Err(); err != nil {
			return chunks, err
		}

		seq := i + 1
		name := ChunkFileName(base, seq)
		content, err := FormatChunk(&batch.Header, text)
		if err != nil {
			return chunks, fmt.Errorf("format chunk %s: %w", name, err)
		}

		path := filepath.Join(w.baseDir, name)
		if err := writeFileAtomic(path, []byte(content)); err != nil {
			return chunks, err
		}

		chunks = append(chunks, &kbase.Chunk{
			ID:     strings.TrimSuffix(name, Ext),
			Seq:    seq,
			Path:   path,
			Text:   text,
			Header: batch.Header,
		})
	}
	return chunks, nil
}

// ReadChunk reads a chunk file written by ChunkWriter.
func ReadChunk(path string) (*kbase.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, body, err := ParseChunk(string(data))
	if err != nil {
		return nil, err
	}

	chunk := &kbase.Chunk{
		ID:   strings.TrimSuffix(filepath.Base(path), Ext),
		Path: path,
		Text: body,
	}
	if header != nil {
		chunk.Header = *header
	}
	return chunk, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
