package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-demos/pkg/errors"
)

// recordSleeps replaces the backoff sleep with a recorder.
func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	old := sleepFn
	sleepFn = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFn = old })
	return &slept
}

func newTestClient(url string, retries int) *Client {
	return NewClient(Options{
		APIKey:    "sk-test",
		ProjectID: "proj_123",
		OrgID:     "org_456",
		BaseURL:   url,
		Format:    "mp3",
		Speed:     0.95,
		Retries:   retries,
		Backoff:   1.5,
	})
}

func TestSynthesizeSuccess(t *testing.T) {
	recordSleeps(t)

	var gotBody speechRequest
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte("ID3fake-mp3-bytes"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv.URL, 2).Synthesize(context.Background(), "Bonjour", "nova", "gpt-4o-audio-preview")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3fake-mp3-bytes"), audio)

	assert.Equal(t, speechRequest{
		Model:  "gpt-4o-audio-preview",
		Input:  "Bonjour",
		Voice:  "nova",
		Format: "mp3",
		Speed:  0.95,
	}, gotBody)
	assert.Equal(t, "Bearer sk-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, "audio/mpeg", gotHeaders.Get("Accept"))
	assert.Equal(t, "proj_123", gotHeaders.Get("OpenAI-Project"))
	assert.Equal(t, "org_456", gotHeaders.Get("OpenAI-Organization"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-Id"))
}

// With retries=2 a call survives three consecutive retriable failures and
// succeeds on the fourth attempt, sleeping three times with non-decreasing
// intervals.
func TestSynthesizeRetriesThenSucceeds(t *testing.T) {
	slept := recordSleeps(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv.URL, 2).Synthesize(context.Background(), "hi", "alloy", "gpt-4o-audio-preview")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), audio)
	assert.Equal(t, 4, attempts)

	require.Len(t, *slept, 3)
	for i := 1; i < len(*slept); i++ {
		assert.GreaterOrEqual(t, (*slept)[i], (*slept)[i-1], "backoff must be non-decreasing")
	}
	// First sleep: 1.5^0 + 0.1*1 = 1.1s
	assert.InDelta(t, 1.1, (*slept)[0].Seconds(), 1e-9)
}

func TestSynthesizeRetriesExhausted(t *testing.T) {
	slept := recordSleeps(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Synthesize(context.Background(), "hi", "alloy", "gpt-4o-audio-preview")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeAPITransient))
	assert.Contains(t, err.Error(), "503")
	// retries=1: attempts 1 and 2 sleep, attempt 3 fails terminally.
	assert.Equal(t, 3, attempts)
	assert.Len(t, *slept, 2)
}

func TestSynthesizeClassifiesModelRejection(t *testing.T) {
	recordSleeps(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"The model 'gpt-4o-audio-preview' does not exist","type":"invalid_request_error","param":"model","code":"model_not_found"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Synthesize(context.Background(), "hi", "alloy", "gpt-4o-audio-preview")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeModelNotFound))
}

func TestSynthesizeClassifiesPlainRejection(t *testing.T) {
	recordSleeps(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid voice 'bogus'","type":"invalid_request_error","param":"voice"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Synthesize(context.Background(), "hi", "bogus", "gpt-4o-audio-preview")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeRequestFailed))
	// No sniffing false positive: a voice rejection is not a model rejection.
	assert.False(t, apperrors.Is(err, apperrors.CodeModelNotFound))
}

func TestSynthesizeTransportErrorRetried(t *testing.T) {
	slept := recordSleeps(t)

	// Nothing listens here; every attempt is a transport error.
	_, err := newTestClient("http://127.0.0.1:1", 1).Synthesize(context.Background(), "hi", "alloy", "gpt-4o-audio-preview")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeAPITransient))
	assert.Len(t, *slept, 2)
}

func TestTruncateBytes(t *testing.T) {
	assert.Equal(t, []byte("abc"), truncateBytes([]byte("abc"), 5))
	assert.Equal(t, []byte("ab"), truncateBytes([]byte("abcdef"), 2))
}
