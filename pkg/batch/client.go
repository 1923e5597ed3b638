package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallestai/waves-go/pkg/errorsx"
	"github.com/smallestai/waves-go/pkg/logging"
	"github.com/smallestai/waves-go/pkg/resilience"
	"github.com/smallestai/waves-go/pkg/stt"
)

const (
	DefaultBaseURL = "https://waves-api.smallest.ai/api/v1"
	DefaultModel   = "pulse"

	defaultRequestTimeout = 300 * time.Second
)

// Params are the recognizer options for a one-shot transcription request.
type Params struct {
	Language       string
	WordTimestamps bool
	Diarize        bool
}

// Result is the decoded response of a one-shot transcription.
type Result struct {
	Status        string          `json:"status"`
	Transcription string          `json:"transcription"`
	Language      string          `json:"language,omitempty"`
	Words         []stt.Word      `json:"words,omitempty"`
	Utterances    []stt.Utterance `json:"utterances,omitempty"`
}

// Client posts whole audio files to the recognizer and decodes the result.
// Unlike the streaming session it may retry, since a failed POST is safely
// repeatable.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	retry   resilience.RetryPolicy
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithModel selects the recognizer model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithRetry sets the retry policy for transient request failures.
func WithRetry(policy resilience.RetryPolicy) Option {
	return func(c *Client) { c.retry = policy }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		retry:   resilience.RetryPolicy{},
		logger:  logging.NewComponentLogger(slog.Default(), "batch_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe posts raw audio bytes and returns the decoded transcription.
func (c *Client) Transcribe(ctx context.Context, audio []byte, params Params) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if params.Language == "" {
		params.Language = stt.DefaultLanguage
	}

	endpoint, err := c.requestURL(params)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonBatchRequest)
	}

	var result *Result
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
		if err != nil {
			return errorsx.Wrap(err, errorsx.ReasonBatchRequest)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := c.http.Do(req)
		if err != nil {
			return errorsx.Wrap(err, errorsx.ReasonBatchRequest)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errorsx.Wrap(err, errorsx.ReasonBatchRequest)
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Error("transcribe_request_failed",
				slog.Int("status", resp.StatusCode))
			return errorsx.Wrap(
				fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
				errorsx.ReasonBatchStatus)
		}

		var decoded Result
		if err := json.Unmarshal(body, &decoded); err != nil {
			return errorsx.Wrap(err, errorsx.ReasonBatchDecode)
		}
		if decoded.Status != "success" {
			return errorsx.Wrap(
				fmt.Errorf("transcription failed with status %q", decoded.Status),
				errorsx.ReasonBatchStatus)
		}
		result = &decoded
		return nil
	}

	if c.retry.MaxRetries > 0 {
		err = c.retry.Do(attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("transcribe_completed",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("words", len(result.Words)))
	return result, nil
}

func (c *Client) requestURL(params Params) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + c.model + "/get_text")
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("language", params.Language)
	if params.WordTimestamps {
		q.Set("word_timestamps", strconv.FormatBool(params.WordTimestamps))
	}
	if params.Diarize {
		q.Set("diarize", strconv.FormatBool(params.Diarize))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
