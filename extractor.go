package kbase

// Extractor converts a fetched resource into plain text.
// Implementations never fail: any error degrades to an empty string.
type Extractor interface {
	Extract(url string, body []byte) string
}

// TextExtractor is a single extraction strategy that may fail.
// Extractors chain several strategies and fall back on error or empty output.
type TextExtractor interface {
	ExtractText(body []byte) (string, error)
}
