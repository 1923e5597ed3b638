package waves

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/smallestai/waves-go/pkg/configutil"
)

// Config is the YAML-backed configuration for the client facade and the
// example programs. The stream section is a free-form settings map handed
// to the session layer, which enforces its own schema.
type Config struct {
	APIKey   string         `mapstructure:"api_key"`
	LogLevel string         `mapstructure:"log_level"`
	Stream   map[string]any `mapstructure:"stream"`
	Batch    BatchSettings  `mapstructure:"batch"`
}

// BatchSettings configures one-shot REST transcription.
type BatchSettings struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Language       string `mapstructure:"language"`
	WordTimestamps bool   `mapstructure:"word_timestamps"`
	Diarize        bool   `mapstructure:"diarize"`
}

// LoadConfig reads a YAML config file. The API key falls back to the
// SMALLEST_API_KEY environment variable when the file omits it.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("SMALLEST_API_KEY")
	}
	if err := configutil.RequireString(cfg.APIKey, "api_key"); err != nil {
		return cfg, err
	}
	return cfg, nil
}
