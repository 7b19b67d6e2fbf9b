package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".notion-sync-tools"))
		}
	}

	viper.SetEnvPrefix("NOTION_SYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bare names accepted in addition to the NOTION_SYNC_ prefixed forms.
	viper.BindEnv("notion.token", "NOTION_SYNC_NOTION_TOKEN", "NOTION_TOKEN")
	viper.BindEnv("notion.api_version", "NOTION_SYNC_NOTION_API_VERSION", "NOTION_API_VERSION")
	viper.BindEnv("api.max_blocks_per_request", "NOTION_SYNC_API_MAX_BLOCKS_PER_REQUEST", "NOTION_MAX_BLOCKS")
	viper.BindEnv("api.retry_attempts", "NOTION_SYNC_API_RETRY_ATTEMPTS", "NOTION_RETRY_ATTEMPTS")
	viper.BindEnv("logging.level", "NOTION_SYNC_LOGGING_LEVEL", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("notion.api_version", d.Notion.APIVersion)
	viper.SetDefault("api.max_blocks_per_request", d.API.MaxBlocksPerRequest)
	viper.SetDefault("api.max_text_length", d.API.MaxTextLength)
	viper.SetDefault("api.max_table_rows", d.API.MaxTableRows)
	viper.SetDefault("api.retry_attempts", d.API.RetryAttempts)
	viper.SetDefault("api.retry_delay", d.API.RetryDelay)
	viper.SetDefault("api.rate_limit_delay", d.API.RateLimitDelay)
	viper.SetDefault("bulk_upload.exclude_patterns", d.Bulk.ExcludePatterns)
	viper.SetDefault("logging.level", d.Logging.Level)
}

// buildConfig assembles one explicit Config from the resolved viper state.
// Components receive this value; nothing reads ambient process state later.
func buildConfig() types.Config {
	c := types.DefaultConfig()
	c.Notion.Token = viper.GetString("notion.token")
	c.Notion.APIVersion = viper.GetString("notion.api_version")
	c.API.MaxBlocksPerRequest = viper.GetInt("api.max_blocks_per_request")
	c.API.MaxTextLength = viper.GetInt("api.max_text_length")
	c.API.MaxTableRows = viper.GetInt("api.max_table_rows")
	c.API.RetryAttempts = viper.GetInt("api.retry_attempts")
	c.API.RetryDelay = viper.GetDuration("api.retry_delay")
	c.API.RateLimitDelay = viper.GetDuration("api.rate_limit_delay")
	c.Bulk.ExcludePatterns = viper.GetStringSlice("bulk_upload.exclude_patterns")
	c.Ledger.Path = viper.GetString("ledger.path")
	c.Logging.Level = viper.GetString("logging.level")
	return c
}
