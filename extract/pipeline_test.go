package extract_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/kbase/extract"
	"github.com/fwojciec/kbase/goquery"
	"github.com/fwojciec/kbase/mock"
	"github.com/fwojciec/kbase/pdf"
	"github.com/stretchr/testify/assert"
)

func static(text string, err error) *mock.TextExtractor {
	return &mock.TextExtractor{
		ExtractTextFn: func([]byte) (string, error) { return text, err },
	}
}

func TestPipeline_Extract(t *testing.T) {
	t.Parallel()

	t.Run("routes pdf urls to the pdf extractor only", func(t *testing.T) {
		t.Parallel()

		htmlCalled := false
		html := &mock.TextExtractor{ExtractTextFn: func([]byte) (string, error) {
			htmlCalled = true
			return "html", nil
		}}
		p := extract.NewPipeline(static("pdf text", nil), html)

		got := p.Extract("https://example.com/Guide.PDF", []byte("%PDF"))

		assert.Equal(t, "pdf text", got)
		assert.False(t, htmlCalled)
	})

	t.Run("pdf failure degrades to empty text", func(t *testing.T) {
		t.Parallel()

		p := extract.NewPipeline(static("", errors.New("bad xref")), static("html", nil))

		assert.Empty(t, p.Extract("https://example.com/a.pdf", nil))
	})

	t.Run("first non-empty strategy wins", func(t *testing.T) {
		t.Parallel()

		p := extract.NewPipeline(nil,
			static("", errors.New("no article")),
			static("   ", nil),
			static(" readable text ", nil),
			static("fallback text", nil),
		)

		assert.Equal(t, "readable text", p.Extract("https://example.com/page", nil))
	})

	t.Run("reports strategy failures", func(t *testing.T) {
		t.Parallel()

		var failed []int
		p := extract.NewPipeline(nil, static("", errors.New("boom")), static("ok", nil))
		p.OnError = func(_ string, strategy int, _ error) {
			failed = append(failed, strategy)
		}

		assert.Equal(t, "ok", p.Extract("https://example.com/", nil))
		assert.Equal(t, []int{0}, failed)
	})

	t.Run("recovers from panicking strategies", func(t *testing.T) {
		t.Parallel()

		panicky := &mock.TextExtractor{ExtractTextFn: func([]byte) (string, error) {
			panic("nil map")
		}}
		p := extract.NewPipeline(nil, panicky, static("fallback", nil))

		assert.Equal(t, "fallback", p.Extract("https://example.com/", nil))
	})

	t.Run("returns empty text when every strategy fails", func(t *testing.T) {
		t.Parallel()

		p := extract.NewPipeline(nil, static("", errors.New("a")), static("", errors.New("b")))

		assert.Empty(t, p.Extract("https://example.com/", nil))
	})

	t.Run("real chain extracts visible text from minimal html", func(t *testing.T) {
		t.Parallel()

		p := extract.NewPipeline(pdf.NewExtractor(), goquery.NewTextExtractor())

		assert.Equal(t, "Hello", p.Extract("https://example.com/", []byte("<p>Hello</p>")))
		assert.Empty(t, p.Extract("https://example.com/x.pdf", []byte("<p>Hello</p>")))
	})
}
