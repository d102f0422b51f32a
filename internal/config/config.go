// Package config handles Scout configuration loading.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/scout-ai/scout/internal/errors"
)

// Environment variable names. All four are required at startup.
const (
	EnvLLMAPIKey            = "LLM_API_KEY"
	EnvSearchAPIKey         = "SEARCH_API_KEY"
	EnvSearchCustomConfigID = "SEARCH_CUSTOM_CONFIG_ID"
	EnvLLMModel             = "LLM_MODEL"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Timeout: Duration(120 * time.Second),
		},
		Search: SearchConfig{
			BaseURL: "https://api.bing.microsoft.com/v7.0/custom/search",
			Market:  "en-US",
			Timeout: Duration(30 * time.Second),
		},
		Assistant: AssistantConfig{
			Name: "Scout Web Search Assistant",
			Instructions: "You are a research assistant specializing in web search. " +
				"Call function 'search' when provided a user query. " +
				"Call function 'analyze' when you receive the search results. " +
				"Call function 'fetch_page' when a single result needs to be read in full.",
		},
		Driver: DriverConfig{
			PollInterval:   Duration(1 * time.Second),
			PostWriteDelay: Duration(500 * time.Millisecond),
		},
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".scout", "config.toml")
}

// Load builds the configuration from the optional TOML file at configPath
// and the process environment. A missing file falls back to defaults; a
// missing environment variable is a fatal configuration error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "parse "+configPath, apperrors.CategoryConfig)
		}
	} else if !os.IsNotExist(err) {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "read "+configPath, apperrors.CategoryConfig)
	}

	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fromEnv fills in the required environment-sourced settings.
func (c *Config) fromEnv() error {
	for _, v := range []struct {
		name string
		dst  *string
	}{
		{EnvLLMAPIKey, &c.LLM.APIKey},
		{EnvSearchAPIKey, &c.Search.APIKey},
		{EnvSearchCustomConfigID, &c.Search.CustomConfigID},
		{EnvLLMModel, &c.LLM.Model},
	} {
		val := os.Getenv(v.name)
		if val == "" {
			return apperrors.Config(apperrors.CodeConfigMissing, "required environment variable "+v.name+" is not set")
		}
		*v.dst = val
	}
	return nil
}

// Save writes the tunable portion of the configuration to configPath.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}
