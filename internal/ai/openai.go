package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// OpenAIProvider implements Generator and JSONGenerator against the chat completions API.
type OpenAIProvider struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

type OpenAIOption func(*OpenAIProvider)

// WithEndpoint points the provider at a compatible API (or a test server).
func WithEndpoint(url string) OpenAIOption {
	return func(p *OpenAIProvider) { p.endpoint = url }
}

func WithHTTPClient(c *http.Client) OpenAIOption {
	return func(p *OpenAIProvider) { p.http = c }
}

func NewOpenAIProvider(apiKey, model string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	p := &OpenAIProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: DefaultOpenAIEndpoint,
		// the 30s timeout guards against stalled connections; ctx still cancels earlier
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, prompt, nil)
}

func (p *OpenAIProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := p.complete(ctx, prompt, &responseFormat{Type: "json_object"})
	if err != nil {
		return "", err
	}
	return cleanJSONString(text), nil
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, format *responseFormat) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:          p.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("openai: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openai: api error: %s", cr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: no choices: %w", ErrEmptyResponse)
	}
	return cr.Choices[0].Message.Content, nil
}
