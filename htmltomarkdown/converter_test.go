package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Credit reports</h1><h2>Disputes</h2>`,
			want: []string{"# Credit reports", "## Disputes"},
		},
		{
			name: "links",
			html: `<p>See <a href="https://www.consumerfinance.gov">the CFPB</a>.</p>`,
			want: []string{"[the CFPB](https://www.consumerfinance.gov)"},
		},
		{
			name: "lists",
			html: `<ul><li>Equifax</li><li>Experian</li></ul><ol><li>Request</li><li>Review</li></ol>`,
			want: []string{"- Equifax", "- Experian", "1. Request", "2. Review"},
		},
		{
			name: "tables",
			html: `<table><thead><tr><th>Item</th><th>Years</th></tr></thead><tbody><tr><td>Charge-off</td><td>7</td></tr></tbody></table>`,
			want: []string{"Item", "Charge-off", "|", "---"},
		},
		{
			name: "emphasis",
			html: `<p><strong>Bold</strong> and <em>italic</em>.</p>`,
			want: []string{"**Bold**", "*italic*"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tc.html)

			require.NoError(t, err)
			for _, w := range tc.want {
				assert.Contains(t, md, w)
			}
		})
	}
}

func TestConverter_TrimsOutput(t *testing.T) {
	t.Parallel()

	md, err := htmltomarkdown.NewConverter().Convert("\n\n<p>Hello</p>\n\n")

	require.NoError(t, err)
	assert.Equal(t, "Hello", md)
}

func TestConverter_RejectsBlankInput(t *testing.T) {
	t.Parallel()

	_, err := htmltomarkdown.NewConverter().Convert("  \n")

	require.Error(t, err)
	assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
}
