package types

import (
	"fmt"
	"time"
)

// NotionConfig holds credentials and protocol settings for the remote API.
type NotionConfig struct {
	// Token is the integration token sent as the Bearer credential.
	// Required for every command that talks to the API.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// APIVersion is the value of the Notion-Version request header
	// (default "2022-06-28").
	APIVersion string `json:"api_version" yaml:"api_version"`
}

// APIConfig holds the remote limits and pacing knobs shared by the block
// translator and the transport. All values must be positive.
type APIConfig struct {
	// MaxBlocksPerRequest caps how many blocks one append call may carry
	// (default 100). Longer sequences are sent as sequential chunks.
	MaxBlocksPerRequest int `json:"max_blocks_per_request" yaml:"max_blocks_per_request"`

	// MaxTextLength caps the length in runes of a single text run
	// (default 2000). Longer runs are split, never truncated.
	MaxTextLength int `json:"max_text_length" yaml:"max_text_length"`

	// MaxTableRows caps data rows per table block (default 100). Larger
	// tables are split into fragments that each repeat the header.
	MaxTableRows int `json:"max_table_rows" yaml:"max_table_rows"`

	// RetryAttempts is the total number of attempts for one remote call,
	// first try included (default 3).
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts"`

	// RetryDelay seeds the exponential backoff between attempts
	// (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// RateLimitDelay is the fixed pause before every remote call,
	// including the first attempt (default 500ms). It is separate from
	// retry backoff.
	RateLimitDelay time.Duration `json:"rate_limit_delay" yaml:"rate_limit_delay"`
}

// BulkConfig holds settings for directory uploads.
type BulkConfig struct {
	// ExcludePatterns lists path segments skipped during markdown
	// discovery (e.g. ".git", "node_modules").
	ExcludePatterns []string `json:"exclude_patterns" yaml:"exclude_patterns"`
}

// LedgerConfig holds settings for the local operation history.
type LedgerConfig struct {
	// Path is the sqlite database file recording sync operations.
	// Empty resolves to ~/.notion-sync-tools/history.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig holds diagnostics settings.
type LoggingConfig struct {
	// Level is the minimum zap level emitted: debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`
}

// Config groups all settings for one run. It is constructed once by the
// CLI and passed by reference; no component reads process state directly.
type Config struct {
	Notion  NotionConfig  `json:"notion" yaml:"notion"`
	API     APIConfig     `json:"api" yaml:"api"`
	Bulk    BulkConfig    `json:"bulk_upload" yaml:"bulk_upload"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DefaultExcludePatterns are the path segments bulk discovery skips when
// the configuration does not override them.
var DefaultExcludePatterns = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	"venv",
	".pytest_cache",
}

// DefaultConfig returns the built-in configuration values.
func DefaultConfig() Config {
	return Config{
		Notion: NotionConfig{
			APIVersion: "2022-06-28",
		},
		API: APIConfig{
			MaxBlocksPerRequest: 100,
			MaxTextLength:       2000,
			MaxTableRows:        100,
			RetryAttempts:       3,
			RetryDelay:          time.Second,
			RateLimitDelay:      500 * time.Millisecond,
		},
		Bulk: BulkConfig{
			ExcludePatterns: append([]string(nil), DefaultExcludePatterns...),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects limit and pacing values that would make remote calls
// misbehave. It runs before any network activity.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"api.max_blocks_per_request", c.API.MaxBlocksPerRequest},
		{"api.max_text_length", c.API.MaxTextLength},
		{"api.max_table_rows", c.API.MaxTableRows},
		{"api.retry_attempts", c.API.RetryAttempts},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", p.name, p.value)
		}
	}
	if c.API.RetryDelay <= 0 {
		return fmt.Errorf("config: api.retry_delay must be positive, got %s", c.API.RetryDelay)
	}
	if c.API.RateLimitDelay <= 0 {
		return fmt.Errorf("config: api.rate_limit_delay must be positive, got %s", c.API.RateLimitDelay)
	}
	return nil
}

// RequireToken reports an error when no API token is configured. Commands
// that touch the remote call this after Validate.
func (c *Config) RequireToken() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("config: notion.token is not set (config file, NOTION_TOKEN, or secrets dir)")
	}
	return nil
}
