package fs

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/kbase"
	"gopkg.in/yaml.v3"
)

// HeaderVersion identifies the chunk header format written by FormatChunk.
const HeaderVersion = "kbase-chunk/v1"

const (
	headerDelimiter = "---"
	headerMarker    = headerDelimiter + " " + HeaderVersion
)

// FormatChunk renders a chunk file: a versioned header block, a blank line,
// the chunk text and a trailing newline.
func FormatChunk(header *kbase.ChunkHeader, text string) (string, error) {
	fields, err := yaml.Marshal(header)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(headerMarker)
	b.WriteString("\n")
	b.Write(fields)
	b.WriteString(headerDelimiter)
	b.WriteString("\n\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String(), nil
}

// ParseChunk splits chunk file content into its header and body.
//
// Content without a leading marker line has no header and is returned whole.
// A "--- kbase-chunk/vN" marker is parsed strictly: unknown versions,
// unknown fields, missing required fields and a missing closing delimiter
// are EINVALID errors. A bare "---" marker is legacy front matter and is
// decoded leniently. The body excludes the single blank line following the
// header and the final trailing newline.
func ParseChunk(content string) (*kbase.ChunkHeader, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	first, rest, _ := strings.Cut(content, "\n")
	first = strings.TrimRight(first, " \t")

	var strict bool
	switch {
	case first == headerDelimiter:
		strict = false
	case strings.HasPrefix(first, headerDelimiter+" "):
		version := strings.TrimSpace(strings.TrimPrefix(first, headerDelimiter))
		if version != HeaderVersion {
			return nil, "", kbase.Errorf(kbase.EINVALID, "unsupported chunk header version %q", version)
		}
		strict = true
	default:
		return nil, content, nil
	}

	fields, body, ok := cutClosingDelimiter(rest)
	if !ok {
		return nil, "", kbase.Errorf(kbase.EINVALID, "chunk header missing closing %q", headerDelimiter)
	}

	header, err := decodeHeader(fields, strict)
	if err != nil {
		return nil, "", err
	}

	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")
	return header, body, nil
}

// StripHeader returns the body of content, tolerating malformed headers by
// dropping everything up to the closing delimiter when one exists.
// The returned error reports a malformed header; the body is still usable.
func StripHeader(content string) (string, error) {
	_, body, err := ParseChunk(content)
	if err == nil {
		return body, nil
	}

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	_, rest, _ := strings.Cut(normalized, "\n")
	if _, after, ok := cutClosingDelimiter(rest); ok {
		return strings.TrimSpace(after), err
	}
	return normalized, err
}

// cutClosingDelimiter splits s at the first line consisting only of the
// header delimiter.
func cutClosingDelimiter(s string) (fields, after string, ok bool) {
	offset := 0
	for offset <= len(s) {
		line, _, found := strings.Cut(s[offset:], "\n")
		if strings.TrimRight(line, " \t") == headerDelimiter {
			end := offset + len(line)
			if found {
				end++
			}
			return s[:offset], s[end:], true
		}
		if !found {
			break
		}
		offset += len(line) + 1
	}
	return "", "", false
}

func decodeHeader(fields string, strict bool) (*kbase.ChunkHeader, error) {
	var header kbase.ChunkHeader

	dec := yaml.NewDecoder(bytes.NewReader([]byte(fields)))
	dec.KnownFields(strict)
	if err := dec.Decode(&header); err != nil && !errors.Is(err, io.EOF) {
		return nil, kbase.Errorf(kbase.EINVALID, "malformed chunk header: %v", err)
	}

	if strict {
		if err := header.Validate(); err != nil {
			return nil, err
		}
	}
	return &header, nil
}
