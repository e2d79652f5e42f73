// Package htmltomarkdown renders cleaned article HTML as Markdown so chunk
// bodies keep headings, lists and tables.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/kbase"
)

// Ensure Converter implements kbase.Converter at compile time.
var _ kbase.Converter = (*Converter)(nil)

// Converter converts HTML fragments to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with the CommonMark and table plugins.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert returns html as Markdown with surrounding whitespace trimmed.
// Blank input is EINVALID.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", kbase.Errorf(kbase.EINVALID, "convert html: %v", err)
	}
	return strings.TrimSpace(md), nil
}
