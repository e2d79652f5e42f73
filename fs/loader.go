package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/kbase"
)

// KnowledgeDirsEnv overrides the default knowledge roots. Its value is an
// OS path list (":"-separated on Unix).
const KnowledgeDirsEnv = "KNOWLEDGE_BASE_DIRS"

// DefaultRoots returns the knowledge roots used when KnowledgeDirsEnv is unset.
func DefaultRoots() []string {
	return []string{"data/knowledge-base", "src/data/knowledge-base"}
}

// RootsFromEnv returns the roots listed in KnowledgeDirsEnv, or DefaultRoots.
func RootsFromEnv(getenv func(string) string) []string {
	v := strings.TrimSpace(getenv(KnowledgeDirsEnv))
	if v == "" {
		return DefaultRoots()
	}
	var roots []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}

var paragraphRe = regexp.MustCompile(`\n[ \t]*\n`)

// SplitParagraphs splits body on blank lines and returns the trimmed,
// non-empty paragraphs in order.
func SplitParagraphs(body string) []string {
	parts := paragraphRe.Split(strings.ReplaceAll(body, "\r\n", "\n"), -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// Ensure Loader implements kbase.DocumentLoader at compile time.
var _ kbase.DocumentLoader = (*Loader)(nil)

// Loader walks knowledge roots and turns chunk files into corpus documents.
type Loader struct {
	// Roots are walked in order. Missing roots are skipped.
	Roots []string

	// Strict makes a malformed chunk header abort the load.
	// Otherwise the file is kept with its header dropped and Warn is called.
	Strict bool

	// MinChars overrides kbase.MinDocumentChars when positive.
	MinChars int

	// Warn, if set, receives non-fatal problems (malformed headers,
	// unreadable entries).
	Warn LogFunc
}

// NewLoader creates a Loader over roots.
func NewLoader(roots ...string) *Loader {
	return &Loader{Roots: roots}
}

// LoadDocuments returns every paragraph of at least MinChars characters
// found in chunk files under the roots. A file reachable from more than one
// root is loaded once, under the first root that reaches it.
func (l *Loader) LoadDocuments(ctx context.Context) ([]*kbase.CorpusDocument, error) {
	minChars := l.MinChars
	if minChars <= 0 {
		minChars = kbase.MinDocumentChars
	}

	seen := make(map[string]bool)
	var docs []*kbase.CorpusDocument

	for _, root := range l.Roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				l.warn("skip %s: %v", path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), Ext) {
				return nil
			}

			key := path
			if abs, err := filepath.Abs(path); err == nil {
				key = abs
			}
			if seen[key] {
				return nil
			}
			seen[key] = true

			data, err := os.ReadFile(path)
			if err != nil {
				l.warn("skip %s: %v", path, err)
				return nil
			}

			body, err := StripHeader(string(data))
			if err != nil {
				if l.Strict {
					return kbase.Errorf(kbase.EINVALID, "%s: %s", path, kbase.ErrorMessage(err))
				}
				l.warn("malformed header in %s: %s", path, kbase.ErrorMessage(err))
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = d.Name()
			}
			rel = filepath.ToSlash(rel)

			for _, p := range SplitParagraphs(body) {
				if utf8.RuneCountInString(p) < minChars {
					continue
				}
				docs = append(docs, &kbase.CorpusDocument{
					Path:   rel,
					Text:   p,
					Tokens: kbase.Tokenize(p),
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func (l *Loader) warn(format string, args ...any) {
	if l.Warn != nil {
		l.Warn(format, args...)
	}
}
