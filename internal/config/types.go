// Package config provides configuration types for Scout.
package config

import "time"

// Duration wraps time.Duration so TOML values like "500ms" decode cleanly.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the main Scout configuration.
//
// Secrets and the model name always come from the process environment;
// the TOML file only carries tunables.
type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Search    SearchConfig    `toml:"search"`
	Assistant AssistantConfig `toml:"assistant"`
	Driver    DriverConfig    `toml:"driver"`
}

// LLMConfig configures the completion endpoint and assistant runtime.
type LLMConfig struct {
	APIKey  string   `toml:"-"` // from LLM_API_KEY, never persisted
	Model   string   `toml:"-"` // from LLM_MODEL
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// SearchConfig configures the web-search backend.
type SearchConfig struct {
	APIKey         string   `toml:"-"` // from SEARCH_API_KEY
	CustomConfigID string   `toml:"-"` // from SEARCH_CUSTOM_CONFIG_ID
	BaseURL        string   `toml:"base_url"`
	Market         string   `toml:"market"`
	Timeout        Duration `toml:"timeout"`
}

// AssistantConfig configures the assistant definition shipped at creation.
type AssistantConfig struct {
	Name         string `toml:"name"`
	Instructions string `toml:"instructions"`
}

// DriverConfig contains conversation driver tunables.
type DriverConfig struct {
	// PollInterval is the fixed delay between run status polls.
	PollInterval Duration `toml:"poll_interval"`

	// PostWriteDelay is the pause after posting a message before starting
	// a run, covering eventual consistency between the two endpoints.
	PostWriteDelay Duration `toml:"post_write_delay"`
}
