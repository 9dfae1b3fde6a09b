package insight

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"storefront/logx"
)

// GenAIGenerator calls Gemini through the google.golang.org/genai client.
type GenAIGenerator struct {
	client *genai.Client
}

// compile-time assertion
var _ Generator = (*GenAIGenerator)(nil)

// NewGenAIGenerator builds a Gemini API client from cfg.
func NewGenAIGenerator(ctx context.Context, cfg Config) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return &GenAIGenerator{client: client}, nil
}

// Generate sends a single user-text prompt and returns the response text.
func (g *GenAIGenerator) Generate(ctx context.Context, model, prompt string, temperature float32) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// NewFromEnv loads Config and returns a Service. Without an API key, or if
// the client cannot be built, the Service answers with Fallback only.
func NewFromEnv(ctx context.Context) (*Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		logx.Warn().Msg("GEMINI_API_KEY not set, insights will use the fallback text")
		return NewService(nil, cfg), nil
	}
	gen, err := NewGenAIGenerator(ctx, cfg)
	if err != nil {
		logx.Warn().Err(err).Msg("insight generator unavailable, using fallback text")
		return NewService(nil, cfg), nil
	}
	return NewService(gen, cfg), nil
}
