package stt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallestai/waves-go/pkg/configutil"
)

const (
	DefaultBaseURL    = "wss://waves-api.smallest.ai/api/v1"
	DefaultModel      = "lightning"
	DefaultLanguage   = "en"
	DefaultEncoding   = "linear16"
	DefaultSampleRate = 16000

	defaultDialTimeoutMS = 30000
	defaultFinishGraceMS = 10000
)

// supportedEncodings lists the PCM encodings the streaming endpoint accepts.
var supportedEncodings = map[string]struct{}{
	"linear16": {},
}

// Config carries the recognizer options for one streaming session.
// Zero values fall back to documented defaults.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`

	Language           string   `mapstructure:"language"`
	Encoding           string   `mapstructure:"encoding"`
	SampleRate         int      `mapstructure:"sample_rate"`
	WordTimestamps     bool     `mapstructure:"word_timestamps"`
	FullTranscript     bool     `mapstructure:"full_transcript"`
	SentenceTimestamps bool     `mapstructure:"sentence_timestamps"`
	Diarize            bool     `mapstructure:"diarize"`
	RedactPII          bool     `mapstructure:"redact_pii"`
	RedactPCI          bool     `mapstructure:"redact_pci"`
	Numerals           string   `mapstructure:"numerals"`
	Keywords           []string `mapstructure:"keywords"`

	DialTimeoutMS int `mapstructure:"dial_timeout_ms"`
	FinishGraceMS int `mapstructure:"finish_grace_ms"`
}

// settingsSchema is the declared policy for free-form settings maps:
// unknown keys are rejected, never silently dropped.
var settingsSchema = configutil.Schema{
	Required: []string{"api_key"},
	Optional: []string{
		"base_url", "model",
		"language", "encoding", "sample_rate",
		"word_timestamps", "full_transcript", "sentence_timestamps",
		"diarize", "redact_pii", "redact_pci",
		"numerals", "keywords",
		"dial_timeout_ms", "finish_grace_ms",
	},
}

// ConfigFromSettings builds a Config from a free-form settings map,
// rejecting unknown keys and weakly typed mismatches.
func ConfigFromSettings(settings map[string]any) (Config, error) {
	var cfg Config
	if err := configutil.ValidateSettings(settings, settingsSchema); err != nil {
		return cfg, fmt.Errorf("stt settings: %w", err)
	}
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return cfg, fmt.Errorf("stt settings: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Numerals == "" {
		c.Numerals = "auto"
	}
	if c.DialTimeoutMS <= 0 {
		c.DialTimeoutMS = defaultDialTimeoutMS
	}
	if c.FinishGraceMS <= 0 {
		c.FinishGraceMS = defaultFinishGraceMS
	}
	return c
}

func (c Config) validate() error {
	if err := configutil.RequireString(c.APIKey, "api_key"); err != nil {
		return err
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if _, ok := supportedEncodings[c.Encoding]; !ok {
		return fmt.Errorf("unsupported encoding %q", c.Encoding)
	}
	switch c.Numerals {
	case "auto", "true", "false":
	default:
		return fmt.Errorf("numerals must be auto, true or false, got %q", c.Numerals)
	}
	return nil
}

func (c Config) dialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMS) * time.Millisecond
}

func (c Config) finishGrace() time.Duration {
	return time.Duration(c.FinishGraceMS) * time.Millisecond
}

// websocketURL builds the streaming endpoint with all feature flags as
// query parameters, matching the recognizer's wire contract.
func (c Config) websocketURL() (string, error) {
	base := strings.TrimRight(c.BaseURL, "/")
	u, err := url.Parse(base + "/" + c.Model + "/get_text")
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("language", c.Language)
	params.Set("encoding", c.Encoding)
	params.Set("sample_rate", strconv.Itoa(c.SampleRate))
	params.Set("word_timestamps", strconv.FormatBool(c.WordTimestamps))
	params.Set("full_transcript", strconv.FormatBool(c.FullTranscript))
	params.Set("sentence_timestamps", strconv.FormatBool(c.SentenceTimestamps))
	params.Set("diarize", strconv.FormatBool(c.Diarize))
	params.Set("redact_pii", strconv.FormatBool(c.RedactPII))
	params.Set("redact_pci", strconv.FormatBool(c.RedactPCI))
	params.Set("numerals", c.Numerals)
	if len(c.Keywords) > 0 {
		kw, err := json.Marshal(c.Keywords)
		if err != nil {
			return "", err
		}
		params.Set("keywords", string(kw))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
