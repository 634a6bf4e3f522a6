package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client calls an external compiler service over HTTP. Each operation is
// POST {baseURL}/{op} with {"source": ...} answered by {"output": ...}.
// Compile errors are not transport errors: they arrive as ordinary output.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	backoff    func(attempt int) time.Duration

	Stats *Stats
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		backoff: Backoff,
		Stats:   NewStats(time.Hour),
	}
}

type compileRequest struct {
	Source string `json:"source"`
}

type compileResponse struct {
	Output string `json:"output"`
	Error  *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Parse(ctx context.Context, source string) (string, error) {
	return c.call(ctx, OpParse, source)
}

func (c *Client) Tokenize(ctx context.Context, source string) (string, error) {
	return c.call(ctx, OpTokenize, source)
}

func (c *Client) Interpret(ctx context.Context, source string) (string, error) {
	return c.call(ctx, OpInterpret, source)
}

func (c *Client) call(ctx context.Context, op Op, source string) (string, error) {
	for attempt := 0; ; attempt++ {
		start := time.Now()
		out, err := c.do(ctx, op, source)
		c.Stats.Record(op, time.Since(start).Milliseconds(), err != nil)
		if err == nil {
			return out, nil
		}
		if !IsRetryable(err) || attempt >= MaxRetries {
			return "", fmt.Errorf("compiler %s: %w", op, err)
		}

		wait := c.backoff(attempt)
		c.log.Warn("compiler call failed, retrying", "op", op, "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) do(ctx context.Context, op Op, source string) (string, error) {
	body, err := json.Marshal(compileRequest{Source: source})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+string(op), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp compileResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("compiler error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	return apiResp.Output, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
