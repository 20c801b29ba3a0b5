// Package advisor provides the LLM advisor backed by the Gemini generateContent API.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// Client implements ports.Advisor. It sends one prompt per call and decodes exactly one
// JSON payload from the answer. It never retries.
type Client struct {
	endpoint string
	model    string
	apiKey   string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     ports.Logger
}

// New creates a Client.
func New(cfg domain.AdvisorConfig, apiKey string, logger ports.Logger) *Client {
	return NewWithClient(cfg, apiKey, &http.Client{}, logger)
}

// NewWithClient creates a Client with a custom HTTP client.
func NewWithClient(cfg domain.AdvisorConfig, apiKey string, client *http.Client, logger ports.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiKey:     apiKey,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate sends prompt and returns the concatenated text of the first candidate.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Join(domain.ErrAdvisorTimeout, err)
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0},
	})
	if err != nil {
		return "", zerr.Wrap(errors.Join(domain.ErrAdvisorRequestFailed, err), "failed to encode request")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", zerr.Wrap(errors.Join(domain.ErrAdvisorRequestFailed, err), "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.Join(domain.ErrAdvisorTimeout, err)
		}
		return "", zerr.Wrap(errors.Join(domain.ErrAdvisorRequestFailed, err), "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.Join(domain.ErrAdvisorTimeout, err)
		}
		return "", zerr.Wrap(errors.Join(domain.ErrAdvisorMalformed, err), "failed to decode response envelope")
	}
	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return "", zerr.With(zerr.Wrap(domain.ErrAdvisorMalformed, "prompt was blocked"), "reason", decoded.PromptFeedback.BlockReason)
	}
	if len(decoded.Candidates) == 0 {
		return "", zerr.Wrap(domain.ErrAdvisorMalformed, "response has no candidates")
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", zerr.Wrap(domain.ErrAdvisorMalformed, "response text is empty")
	}
	return text.String(), nil
}

// statusError maps a non-200 answer. Quota exhaustion is reported as HTTP 429 or as
// a RESOURCE_EXHAUSTED status in the error body.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body apiError
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode == http.StatusTooManyRequests || body.Error.Status == "RESOURCE_EXHAUSTED" {
		return zerr.With(zerr.Wrap(domain.ErrAdvisorQuotaExhausted, "advisor rejected the request"), "status", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusRequestTimeout {
		return zerr.With(zerr.Wrap(domain.ErrAdvisorTimeout, "advisor timed out"), "status", resp.StatusCode)
	}

	msg := body.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	err := zerr.Wrap(domain.ErrAdvisorRequestFailed, "unexpected advisor response")
	err = zerr.With(err, "status", resp.StatusCode)
	return zerr.With(err, "message", msg)
}
