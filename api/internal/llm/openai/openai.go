package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kanoon-saral/api/internal/prompt"
	"kanoon-saral/api/internal/util"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
	Prompts prompt.Set
	httpc   *http.Client
}

func New(key, model, baseURL string, prompts prompt.Set) *Engine {
	return &Engine{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: strings.TrimSpace(baseURL),
		Prompts: prompts,
		httpc:   &http.Client{},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for custom timeouts or tracing).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Simplify(ctx context.Context, text string) (string, error) {
	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{"role": "system", "content": e.Prompts.SimplifySystem},
			map[string]any{"role": "user", "content": e.Prompts.SimplifyRequest(text)},
		},
	}
	out, err := e.chat(ctx, "simplify", body)
	if err != nil {
		return "", err
	}
	return util.StripCodeFences(out), nil
}

func (e *Engine) ExtractText(ctx context.Context, image []byte, mime string) (string, error) {
	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": e.Prompts.ExtractUser},
					map[string]any{"type": "image_url", "image_url": map[string]any{
						"url":    util.MakeDataURL(mime, image),
						"detail": "high",
					}},
				},
			},
		},
		"temperature": 0,
	}
	out, err := e.chat(ctx, "extract", body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (e *Engine) chat(ctx context.Context, op string, body map[string]any) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai %s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL(e.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai %s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai %s %d: %s", op, resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("openai %s: decode response: %w", op, err)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("openai %s: empty response", op)
	}
	return raw.Choices[0].Message.Content, nil
}

func chatURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/chat/completions"
}
