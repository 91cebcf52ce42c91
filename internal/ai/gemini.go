package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Generator and JSONGenerator using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	jsonModel *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)

	// Separate handle so structured calls never leak JSON mode into chat replies.
	jsonModel := client.GenerativeModel(modelName)
	jsonModel.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.2)

	return &GeminiProvider{client: client, model: model, jsonModel: jsonModel}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return generateText(ctx, p.model, prompt)
}

func (p *GeminiProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := generateText(ctx, p.jsonModel, prompt)
	if err != nil {
		return "", err
	}
	return cleanJSONString(text), nil
}

func generateText(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("gemini: empty prompt")
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates: %w", ErrEmptyResponse)
	}

	var textParts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		textParts = append(textParts, string(txt))
	}
	if len(textParts) == 0 {
		return "", fmt.Errorf("gemini: no text parts: %w", ErrEmptyResponse)
	}
	return strings.Join(textParts, "\n"), nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
