package generator

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

	"go_vocab_quiz/internal/config"
)

// Client は外部の文章生成サービス ({prompt} -> {generatedText})。
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured はAPIキーが設定されていない状態を表します (障害ではない)
var ErrNotConfigured = errors.New("sentence service is not configured")

const maxResponseBytes = 1 << 20

// --- Gemini generateContent の入出力 ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeminiClient は Gemini API を呼び出す Client 実装
type GeminiClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewGeminiClient(cfg config.GeneratorConfig) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGeneratorTimeout
	}
	url := cfg.URL
	if url == "" {
		url = config.DefaultGeneratorURL
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// クエリに載せるとエラーメッセージにキーが出るのでヘッダーで渡す
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed after %s: %w", time.Since(start), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini: api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
