package goquery

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/fwojciec/kbase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure TextExtractor implements kbase.TextExtractor at compile time.
var _ kbase.TextExtractor = (*TextExtractor)(nil)

// TextExtractor returns the aggregate visible text of an HTML document. It
// is the last resort of the extraction chain and keeps navigation and other
// boilerplate that the readability strategies would drop.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\r]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// ExtractText parses rawHTML and concatenates its text nodes, breaking
// lines at block elements. Script, style and similar nodes are skipped.
func (e *TextExtractor) ExtractText(rawHTML []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return "", kbase.Errorf(kbase.EINVALID, "failed to parse HTML: %v", err)
	}

	var b strings.Builder
	walkText(&b, root)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text := newlineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text), nil
}

func walkText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
		if hiddenElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(b, c)
	}
	if block {
		b.WriteString("\n\n")
	}
}

var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Main:       true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Nav:        true,
	atom.Aside:      true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
}
