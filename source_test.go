package kbase_test

import (
	"testing"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/stretchr/testify/assert"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &kbase.Config{
		JurisdictionDefault: "CA",
		Sources: []kbase.Source{
			{Name: "a", URLs: []string{"a.com"}},
			{Name: "b", URLs: []string{"b.com"}, AuthorityLevel: "primary", Jurisdiction: "US"},
		},
	}

	cfg.ApplyDefaults()

	assert.Equal(t, kbase.DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, kbase.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, kbase.DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, kbase.DefaultAuthorityLevel, cfg.Sources[0].AuthorityLevel)
	assert.Equal(t, "CA", cfg.Sources[0].Jurisdiction)
	assert.Equal(t, "primary", cfg.Sources[1].AuthorityLevel)
	assert.Equal(t, "US", cfg.Sources[1].Jurisdiction)
}

func TestConfig_RequestDelay(t *testing.T) {
	t.Parallel()

	cfg := &kbase.Config{RequestDelaySeconds: 0.25}

	assert.Equal(t, 250*time.Millisecond, cfg.RequestDelay())
}
