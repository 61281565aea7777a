// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies an upstream chat-completion provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// BatchConfig holds the batch scheduler and cache tunables. The defaults
// bound upstream prompt-confusion risk and token cost while keeping
// latency acceptable.
type BatchConfig struct {
	// MaxParagraphsPerBatch caps the paragraph count per upstream call
	// (default 15).
	MaxParagraphsPerBatch int `json:"max_paragraphs_per_batch" yaml:"max_paragraphs_per_batch"`

	// MaxCharsPerBatch caps the total character budget per upstream call
	// (default 10000).
	MaxCharsPerBatch int `json:"max_chars_per_batch" yaml:"max_chars_per_batch"`

	// DebounceDelay is how long the scheduler waits after the last
	// paragraph arrives before dispatching (default 300ms). New
	// paragraphs reset the timer.
	DebounceDelay time.Duration `json:"debounce_delay" yaml:"debounce_delay"`

	// MaxCacheEntries caps the number of live cache entries (default 500).
	MaxCacheEntries int `json:"max_cache_entries" yaml:"max_cache_entries"`

	// CacheExpireTime is how long a cached result stays valid
	// (default 7 days).
	CacheExpireTime time.Duration `json:"cache_expire_time" yaml:"cache_expire_time"`
}

// Batch scheduler and cache defaults.
const (
	DefaultMaxParagraphsPerBatch = 15
	DefaultMaxCharsPerBatch      = 10000
	DefaultDebounceDelay         = 300 * time.Millisecond
	DefaultMaxCacheEntries       = 500
	DefaultCacheExpireTime       = 7 * 24 * time.Hour
)

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c BatchConfig) WithDefaults() BatchConfig {
	if c.MaxParagraphsPerBatch <= 0 {
		c.MaxParagraphsPerBatch = DefaultMaxParagraphsPerBatch
	}
	if c.MaxCharsPerBatch <= 0 {
		c.MaxCharsPerBatch = DefaultMaxCharsPerBatch
	}
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = DefaultDebounceDelay
	}
	if c.MaxCacheEntries <= 0 {
		c.MaxCacheEntries = DefaultMaxCacheEntries
	}
	if c.CacheExpireTime <= 0 {
		c.CacheExpireTime = DefaultCacheExpireTime
	}
	return c
}

// RetryConfig holds retry executor settings for upstream calls.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first
	// failure (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// InitialDelay is the first backoff wait (default 1s).
	InitialDelay time.Duration `json:"initial_delay" yaml:"initial_delay"`

	// BackoffMultiplier scales the delay after each attempt (default 2).
	BackoffMultiplier float64 `json:"backoff_multiplier" yaml:"backoff_multiplier"`

	// MaxDelay caps the backoff wait (default 30s).
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`
}

// ProviderConfig holds upstream provider settings.
type ProviderConfig struct {
	// Provider selects the upstream adapter: openai, anthropic, or gemini.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider. Usually loaded from
	// .secrets/ rather than the config file.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-request HTTP timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StoreConfig holds persistence settings for the cache snapshot and the
// user profile.
type StoreConfig struct {
	// Path is the SQLite database file. Empty selects in-memory-only
	// operation.
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all settings for the translation pipeline.
type PipelineConfig struct {
	Batch    BatchConfig     `json:"batch" yaml:"batch"`
	Retry    RetryConfig     `json:"retry" yaml:"retry"`
	Provider ProviderConfig  `json:"provider" yaml:"provider"`
	Store    StoreConfig     `json:"store" yaml:"store"`
	Mode     TranslationMode `json:"mode" yaml:"mode"`
}
