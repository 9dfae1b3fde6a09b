// Package insight produces the short marketing blurb shown on a product detail view.
package insight

import (
	"context"
	"fmt"
	"strings"

	"storefront/logx"
)

// Fallback is returned whenever the generator cannot produce text.
const Fallback = "This product offers exceptional quality and value, making it a perfect choice for your daily lifestyle needs."

const promptTemplate = `You are a premium shopping assistant. Briefly explain in 2-3 short, catchy sentences why someone should buy the product "%s" based on this description: "%s". Focus on value and lifestyle. Do not use markdown formatting like asterisks.`

// Generator issues one text-generation call.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, temperature float32) (string, error)
}

// Service renders the prompt and hides every failure behind Fallback.
// It does not cache: each call reaches the generator.
type Service struct {
	gen         Generator
	model       string
	temperature float32
}

// NewService returns a Service. A nil gen makes every Insight return Fallback.
func NewService(gen Generator, cfg Config) *Service {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Service{gen: gen, model: model, temperature: cfg.Temperature}
}

// Prompt renders the fixed prompt for a product.
func Prompt(title, description string) string {
	return fmt.Sprintf(promptTemplate, title, description)
}

// Insight returns generated text for the product, or Fallback.
func (s *Service) Insight(ctx context.Context, title, description string) string {
	if s == nil || s.gen == nil {
		return Fallback
	}
	text, err := s.gen.Generate(ctx, s.model, Prompt(title, description), s.temperature)
	if err != nil {
		logx.Warn().Err(err).Str("model", s.model).Str("title", title).Msg("insight generation failed")
		return Fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logx.Warn().Str("model", s.model).Str("title", title).Msg("insight generation returned no text")
		return Fallback
	}
	return text
}
