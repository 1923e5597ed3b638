package batch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallestai/waves-go/pkg/errorsx"
	"github.com/smallestai/waves-go/pkg/resilience"
)

func TestTranscribeSuccess(t *testing.T) {
	var gotAuth, gotContentType, gotLanguage string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotLanguage = r.URL.Query().Get("language")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"transcription": "hello from pulse",
			"language": "en",
			"words": [{"word": "hello", "start": 0.1, "end": 0.4, "confidence": 0.99}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	res, err := client.Transcribe(context.Background(), []byte("pcm-bytes"), Params{Language: "en", WordTimestamps: true})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if res.Transcription != "hello from pulse" {
		t.Fatalf("unexpected transcription %q", res.Transcription)
	}
	if len(res.Words) != 1 || res.Words[0].Word != "hello" {
		t.Fatalf("words not decoded: %+v", res.Words)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("missing bearer header, got %q", gotAuth)
	}
	if gotContentType != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotLanguage != "en" {
		t.Fatalf("unexpected language param %q", gotLanguage)
	}
	if string(gotBody) != "pcm-bytes" {
		t.Fatalf("audio bytes not posted verbatim")
	}
}

func TestTranscribeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Transcribe(context.Background(), []byte("x"), Params{})
	if err == nil {
		t.Fatalf("expected error for 401")
	}
	if !errorsx.HasReason(err, errorsx.ReasonBatchStatus) {
		t.Fatalf("expected batch_status reason, got %s", errorsx.Reason(err))
	}
}

func TestTranscribeFailureStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error"}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Transcribe(context.Background(), []byte("x"), Params{})
	if err == nil || !errorsx.HasReason(err, errorsx.ReasonBatchStatus) {
		t.Fatalf("expected batch_status reason, got %v", err)
	}
}

func TestTranscribeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status": "success", "transcription": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient("k",
		WithBaseURL(srv.URL),
		WithRetry(resilience.NewRetryPolicy(3, time.Millisecond)))
	res, err := client.Transcribe(context.Background(), []byte("x"), Params{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if res.Transcription != "ok" {
		t.Fatalf("unexpected transcription %q", res.Transcription)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestTranscribeConnectionRefused(t *testing.T) {
	client := NewClient("k", WithBaseURL("http://127.0.0.1:1"))
	_, err := client.Transcribe(context.Background(), []byte("x"), Params{})
	if err == nil {
		t.Fatalf("expected connection error")
	}
	if !errorsx.HasReason(err, errorsx.ReasonBatchRequest) {
		t.Fatalf("expected batch_request reason, got %s", errorsx.Reason(err))
	}
}
