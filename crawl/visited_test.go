package crawl_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/kbase/crawl"
	"github.com/stretchr/testify/assert"
)

func TestVisitedSet(t *testing.T) {
	t.Parallel()

	t.Run("claims a URL once", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()

		assert.False(t, v.Seen("https://example.com/a"))
		assert.True(t, v.Claim("https://example.com/a"))
		assert.False(t, v.Claim("https://example.com/a"))
		assert.True(t, v.Seen("https://example.com/a"))
		assert.False(t, v.Seen("https://example.com/b"))
		assert.Equal(t, 1, v.Len())
	})

	t.Run("has no false positives beyond the bloom prefilter", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		for i := range 20000 {
			v.Claim(fmt.Sprintf("https://example.com/added/%d", i))
		}

		for i := range 2000 {
			assert.False(t, v.Seen(fmt.Sprintf("https://example.com/other/%d", i)))
		}
		assert.Equal(t, 20000, v.Len())
	})

	t.Run("grants each claim to exactly one goroutine", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		var wins atomic.Int64
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					if v.Claim(fmt.Sprintf("https://example.com/%d", i)) {
						wins.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(100), wins.Load())
	})
}
