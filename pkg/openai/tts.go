// Package openai implements the speech synthesis client for the OpenAI
// /v1/audio/speech endpoint: one POST per attempt, bounded retry with
// exponential backoff, and error classification at the HTTP boundary.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"voice-demos/log"
	apperrors "voice-demos/pkg/errors"
)

const (
	speechURL      = "https://api.openai.com/v1/audio/speech"
	requestTimeout = 60 * time.Second

	// Error bodies are capped before they travel up into failure records.
	maxErrorBody = 300
)

// sleepFn is a seam for tests; production code sleeps for real.
var sleepFn = time.Sleep

// Options configures the client.
type Options struct {
	APIKey    string
	ProjectID string
	OrgID     string

	// BaseURL overrides the endpoint, for tests.
	BaseURL string

	Format string
	Speed  float64

	Retries int
	Backoff float64
}

// Client issues synthesis requests. Safe for sequential reuse across work
// items; this tool never calls it concurrently.
type Client struct {
	http *resty.Client
	url  string
	opts Options
}

func NewClient(opts Options) *Client {
	url := opts.BaseURL
	if url == "" {
		url = speechURL
	}
	return &Client{
		http: resty.New().SetTimeout(requestTimeout),
		url:  url,
		opts: opts,
	}
}

// speechRequest is the JSON body of one synthesis call.
type speechRequest struct {
	Model  string  `json:"model"`
	Input  string  `json:"input"`
	Voice  string  `json:"voice"`
	Format string  `json:"format"`
	Speed  float64 `json:"speed"`
}

// apiError mirrors the JSON error envelope the endpoint returns on failure.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Synthesize performs one synthesis, retrying retriable failures. A retry
// is allowed while attempt <= retries+1, so a call survives retries+1
// consecutive retriable failures and may still succeed on the next attempt.
// Sleep between attempts is backoff^(attempt-1) + 0.1*attempt seconds,
// non-decreasing across attempts.
//
// On final failure the returned error is an AppError classified once, here:
// CodeAPITransient for exhausted retriable failures, CodeModelNotFound when
// the endpoint rejected the model, CodeRequestFailed otherwise.
func (c *Client) Synthesize(ctx context.Context, text, voice, model string) ([]byte, error) {
	accept := "audio/ogg"
	if c.opts.Format == "mp3" {
		accept = "audio/mpeg"
	}

	attempt := 0
	for {
		attempt++

		req := c.http.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+c.opts.APIKey).
			SetHeader("Accept", accept).
			SetHeader("X-Request-Id", uuid.New().String()).
			SetBody(speechRequest{
				Model:  model,
				Input:  text,
				Voice:  voice,
				Format: c.opts.Format,
				Speed:  c.opts.Speed,
			})
		if c.opts.ProjectID != "" {
			req.SetHeader("OpenAI-Project", c.opts.ProjectID)
		}
		if c.opts.OrgID != "" {
			req.SetHeader("OpenAI-Organization", c.opts.OrgID)
		}

		resp, err := req.Post(c.url)
		if err != nil {
			if attempt <= c.opts.Retries+1 {
				c.waitBeforeRetry(attempt, "network error", err.Error())
				continue
			}
			return nil, apperrors.Wrap(apperrors.CodeAPITransient, "network error", err)
		}

		if resp.IsSuccess() {
			return resp.Body(), nil
		}

		status := resp.StatusCode()
		body := resp.Body()
		log.GetLogger().Debug("synthesis request rejected",
			zap.String("model", model),
			zap.String("voice", voice),
			zap.Int("status", status),
			zap.ByteString("body", truncateBytes(body, maxErrorBody)))

		if retriableStatus(status) && attempt <= c.opts.Retries+1 {
			c.waitBeforeRetry(attempt, fmt.Sprintf("HTTP %d", status), "")
			continue
		}
		return nil, classify(status, resp.Status(), body)
	}
}

func (c *Client) waitBeforeRetry(attempt int, reason, detail string) {
	sleepSecs := math.Pow(c.opts.Backoff, float64(attempt-1)) + 0.1*float64(attempt)
	log.GetLogger().Warn("retrying synthesis",
		zap.Int("attempt", attempt),
		zap.Int("maxAttempts", c.opts.Retries+2),
		zap.String("reason", reason),
		zap.String("detail", detail),
		zap.Float64("sleepSecs", sleepSecs))
	sleepFn(time.Duration(sleepSecs * float64(time.Second)))
}

func retriableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// classify turns a terminal HTTP failure into a coded error. The decision
// is made here, once, from the structured error envelope; callers switch on
// the code instead of sniffing message text.
func classify(status int, statusLine string, body []byte) error {
	msg := fmt.Sprintf("HTTP %s: %s", statusLine, truncateBytes(body, maxErrorBody))

	if retriableStatus(status) {
		return apperrors.New(apperrors.CodeAPITransient, msg)
	}

	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil {
		e := parsed.Error
		modelRejected := e.Code == "model_not_found" ||
			e.Param == "model" ||
			strings.Contains(strings.ToLower(e.Message), "model")
		if modelRejected {
			return apperrors.New(apperrors.CodeModelNotFound, msg)
		}
	}
	return apperrors.New(apperrors.CodeRequestFailed, msg)
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
