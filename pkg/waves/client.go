package waves

import (
	"context"

	"github.com/smallestai/waves-go/pkg/batch"
	"github.com/smallestai/waves-go/pkg/resilience"
	"github.com/smallestai/waves-go/pkg/stt"
)

// Client is a thin facade tying the streaming and batch surfaces to one
// credential. Each Stream call yields an independently lifecycled session;
// no connection state is shared between exchanges.
type Client struct {
	apiKey        string
	streamBaseURL string
	batchOpts     []batch.Option
}

type Option func(*Client)

// WithStreamBaseURL overrides the websocket API base URL.
func WithStreamBaseURL(base string) Option {
	return func(c *Client) { c.streamBaseURL = base }
}

// WithBatchOptions forwards options to the underlying batch client.
func WithBatchOptions(opts ...batch.Option) Option {
	return func(c *Client) { c.batchOpts = append(c.batchOpts, opts...) }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client plus stream/batch parameters from a loaded
// config file.
func FromConfig(cfg Config) (*Client, stt.Config, batch.Params, error) {
	streamCfg, err := streamConfig(cfg)
	if err != nil {
		return nil, stt.Config{}, batch.Params{}, err
	}

	var opts []Option
	if cfg.Batch.BaseURL != "" {
		opts = append(opts, WithBatchOptions(batch.WithBaseURL(cfg.Batch.BaseURL)))
	}
	if cfg.Batch.Model != "" {
		opts = append(opts, WithBatchOptions(batch.WithModel(cfg.Batch.Model)))
	}

	params := batch.Params{
		Language:       cfg.Batch.Language,
		WordTimestamps: cfg.Batch.WordTimestamps,
		Diarize:        cfg.Batch.Diarize,
	}
	return New(cfg.APIKey, opts...), streamCfg, params, nil
}

// Stream opens a streaming transcription session with this client's
// credential applied.
func (c *Client) Stream(ctx context.Context, cfg stt.Config) (*stt.Session, error) {
	cfg = c.applyStream(cfg)
	return stt.Open(ctx, cfg)
}

// Transcribe posts whole audio bytes for one-shot transcription.
func (c *Client) Transcribe(ctx context.Context, audio []byte, params batch.Params) (*batch.Result, error) {
	opts := append([]batch.Option{
		batch.WithRetry(resilience.NewRetryPolicy(2, 0)),
	}, c.batchOpts...)
	return batch.NewClient(c.apiKey, opts...).Transcribe(ctx, audio, params)
}

func (c *Client) applyStream(cfg stt.Config) stt.Config {
	cfg.APIKey = c.apiKey
	if c.streamBaseURL != "" && cfg.BaseURL == "" {
		cfg.BaseURL = c.streamBaseURL
	}
	return cfg
}

func streamConfig(cfg Config) (stt.Config, error) {
	if len(cfg.Stream) == 0 {
		return stt.Config{APIKey: cfg.APIKey}, nil
	}
	settings := make(map[string]any, len(cfg.Stream)+1)
	for k, v := range cfg.Stream {
		settings[k] = v
	}
	settings["api_key"] = cfg.APIKey
	return stt.ConfigFromSettings(settings)
}
