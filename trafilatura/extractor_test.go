package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Disputes</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Disputing errors on your credit report</h1>
<p>If you find an error on your credit report, you can dispute it with the credit reporting company that produced the report. The company generally must investigate within 30 days.</p>
<p>You should also contact the business that furnished the information, explaining in writing what you believe is inaccurate and including copies of supporting documents.</p>
</article>
<footer>Copyright notice</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractText([]byte(html))

		require.NoError(t, err)
		assert.Contains(t, text, "investigate within 30 days")
		assert.NotContains(t, text, "<p>")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.ExtractText([]byte("   "))

		require.Error(t, err)
		assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
	})
}
