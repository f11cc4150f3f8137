// Package ai suggests check memo lines with an OpenAI-compatible chat
// completions API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"echeck-gateway/config"
	"echeck-gateway/internal/core/ports"
)

const (
	completionsPath = "/chat/completions"
	// MaxMemoLen bounds a suggested memo, in runes.
	MaxMemoLen   = 60
	initialDelay = 500 * time.Millisecond

	systemPrompt = "You write the memo line of a business check. Reply with one short line " +
		"of at most 60 characters, no quotes, no trailing punctuation."
)

// ErrEmptySuggestion is returned when the model answers with nothing usable.
var ErrEmptySuggestion = errors.New("empty memo suggestion")

// MemoClient implements ports.MemoSuggester.
type MemoClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	delay      time.Duration
	client     *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewMemoClient(cfg config.AIConfig) *MemoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &MemoClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxRetries: retries,
		delay:      initialDelay,
		client:     &http.Client{Timeout: timeout},
	}
}

// Suggest returns a single-line memo of at most MaxMemoLen runes. 429 and
// 5xx answers are retried with exponential backoff.
func (c *MemoClient) Suggest(ctx context.Context, req ports.MemoRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		MaxTokens:   32,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// 1x, 2x, 4x the initial delay
			select {
			case <-time.After(c.delay << (attempt - 1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		memo, retry, err := c.complete(ctx, body)
		if err == nil {
			return memo, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}
	return "", fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// complete performs one request and reports whether a failure is retryable.
func (c *MemoClient) complete(ctx context.Context, body []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", true, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("completions API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		} else {
			err = fmt.Errorf("completions API error (%d)", resp.StatusCode)
		}
		return "", resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, ErrEmptySuggestion
	}
	memo := CleanMemo(parsed.Choices[0].Message.Content)
	if memo == "" {
		return "", false, ErrEmptySuggestion
	}
	return memo, false, nil
}

func userPrompt(req ports.MemoRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipient: %s\n", req.RecipientName)
	if req.Amount != "" {
		fmt.Fprintf(&b, "Amount: $%s\n", req.Amount)
	}
	if req.Purpose != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", req.Purpose)
	}
	b.WriteString("Write the memo.")
	return b.String()
}

// CleanMemo keeps the first non-blank line of s, strips wrapping quotes and
// cuts it to MaxMemoLen runes.
func CleanMemo(s string) string {
	var line string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.TrimSpace(strings.Trim(line, "\"'`“”"))
	if utf8.RuneCountInString(line) > MaxMemoLen {
		line = strings.TrimSpace(string([]rune(line)[:MaxMemoLen]))
	}
	return line
}
