package kbase

import "time"

// Defaults applied to a Config by ApplyDefaults.
const (
	DefaultAuthorityLevel = "secondary"
	DefaultJurisdiction   = "US"
	DefaultUserAgent      = "kbase-ingest/1.0"
	DefaultRequestTimeout = 20 * time.Second
	DefaultConcurrency    = 1
)

// Source is a named set of seed URLs crawled with shared provenance.
type Source struct {
	Name           string   `yaml:"name" validate:"required"`
	URLs           []string `yaml:"urls" validate:"required,min=1,dive,required,httpurl"`
	AuthorityLevel string   `yaml:"authority_level"`
	Jurisdiction   string   `yaml:"jurisdiction"`

	// Sitemap adds the domain's sitemap URLs to the depth-0 seeds.
	Sitemap bool `yaml:"sitemap"`
}

// Config describes a crawl run. One file per run.
type Config struct {
	OutputDir             string   `yaml:"output_dir" validate:"required"`
	ChunkSize             int      `yaml:"chunk_size_tokens" validate:"gt=0"`
	ChunkOverlap          int      `yaml:"chunk_overlap_tokens" validate:"gte=0,ltfield=ChunkSize"`
	CrawlDepth            int      `yaml:"crawl_depth" validate:"gte=0"`
	MaxPagesPerDomain     int      `yaml:"max_pages_per_domain" validate:"gt=0"`
	RequestDelaySeconds   float64  `yaml:"request_delay_seconds" validate:"gte=0"`
	RequestTimeoutSeconds float64  `yaml:"request_timeout_seconds" validate:"gte=0"`
	Concurrency           int      `yaml:"concurrency" validate:"gte=0"`
	ExcludeURLPatterns    []string `yaml:"exclude_url_patterns"`
	JurisdictionDefault   string   `yaml:"jurisdiction_default"`
	UserAgent             string   `yaml:"user_agent"`
	Sources               []Source `yaml:"sources" validate:"required,min=1,dive"`
}

// ApplyDefaults fills optional fields left empty by the configuration file.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.JurisdictionDefault == "" {
		c.JurisdictionDefault = DefaultJurisdiction
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = DefaultRequestTimeout.Seconds()
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.AuthorityLevel == "" {
			s.AuthorityLevel = DefaultAuthorityLevel
		}
		if s.Jurisdiction == "" {
			s.Jurisdiction = c.JurisdictionDefault
		}
	}
}

// RequestDelay returns the politeness delay applied after every crawl task.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds * float64(time.Second))
}

// RequestTimeout returns the per-request network timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds * float64(time.Second))
}
