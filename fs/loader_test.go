package fs_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longParagraph = "A charge-off is a debt a creditor has written off as a loss."

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRootsFromEnv(t *testing.T) {
	t.Parallel()

	t.Run("defaults when unset", func(t *testing.T) {
		t.Parallel()

		roots := fs.RootsFromEnv(func(string) string { return "" })

		assert.Equal(t, fs.DefaultRoots(), roots)
	})

	t.Run("splits path list", func(t *testing.T) {
		t.Parallel()

		v := strings.Join([]string{"/a", "", " /b "}, string(os.PathListSeparator))
		roots := fs.RootsFromEnv(func(key string) string {
			if key == fs.KnowledgeDirsEnv {
				return v
			}
			return ""
		})

		assert.Equal(t, []string{"/a", "/b"}, roots)
	})
}

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	got := fs.SplitParagraphs("one\ntwo\n\n  three  \n \t \nfour\n\n\n")

	assert.Equal(t, []string{"one\ntwo", "three", "four"}, got)
}

func TestLoader_LoadDocuments(t *testing.T) {
	t.Parallel()

	t.Run("missing roots yield no documents", func(t *testing.T) {
		t.Parallel()

		l := fs.NewLoader(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "also-nope"))

		docs, err := l.LoadDocuments(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("splits paragraphs and drops short ones", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "guides", "credit.md"),
			"# Title\n\n"+longParagraph+"\n\nshort\n\n"+strings.ToUpper(longParagraph)+"\n")
		writeFile(t, filepath.Join(root, "notes.txt"), longParagraph)

		docs, err := fs.NewLoader(root).LoadDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "guides/credit.md", docs[0].Path)
		assert.Equal(t, longParagraph, docs[0].Text)
		assert.True(t, docs[0].Tokens.Has("charge"))
		assert.True(t, docs[1].Tokens.Has("charge"), "tokens are lower-cased")
	})

	t.Run("round trips chunk writer output", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		words := make([]string, 30)
		for i := range words {
			words[i] = fmt.Sprintf("word%02d", i)
		}
		chunks := kbase.ChunkText(strings.Join(words, " "), 12, 2)
		_, err := fs.NewChunkWriter(filepath.Join(root, "ingested")).WriteChunks(context.Background(), &kbase.ChunkBatch{
			SourceName: "cfpb",
			Header:     *testHeader(),
			Texts:      chunks,
		})
		require.NoError(t, err)

		docs, err := fs.NewLoader(root).LoadDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, len(chunks))
		for i, doc := range docs {
			assert.Equal(t, chunks[i], doc.Text)
			assert.True(t, strings.HasPrefix(doc.Path, "ingested/"))
			assert.NotContains(t, doc.Text, "source_url")
		}
	})

	t.Run("loads overlapping roots once", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "ingested", "a.md"), longParagraph)

		docs, err := fs.NewLoader(root, filepath.Join(root, "ingested")).LoadDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "ingested/a.md", docs[0].Path)
	})

	t.Run("tolerates malformed header by default", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "bad.md"), "--- kbase-chunk/v1\nbogus: [\n---\n\n"+longParagraph)
		var warnings []string
		l := fs.NewLoader(root)
		l.Warn = func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		}

		docs, err := l.LoadDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, longParagraph, docs[0].Text)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "bad.md")
	})

	t.Run("strict mode fails on malformed header", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "bad.md"), "--- kbase-chunk/v1\nsource_url: x\n\n"+longParagraph)
		l := fs.NewLoader(root)
		l.Strict = true

		_, err := l.LoadDocuments(context.Background())

		require.Error(t, err)
		assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
	})

	t.Run("respects canceled context", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.md"), longParagraph)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fs.NewLoader(root).LoadDocuments(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}
