// internal/ai/gemini.go
package ai

import (
	"context"
	"fmt"
	"strings"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is the remote strategy service. Any error means the result
// must be discarded entirely.
type Generator interface {
	GenerateStrategy(ctx context.Context, p business.Profile) (strategy.GeneratedStrategy, error)
	GenerateMarketingPlan(ctx context.Context, p business.Profile) (strategy.MarketingPlan, error)
}

type Config struct {
	APIKey        string
	Model         string
	Temperature   float32
	KnowledgeBase string
	MaxKnowledge  int
}

// contentGenerator is the subset of *genai.GenerativeModel we call.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiGenerator struct {
	client    *genai.Client
	model     contentGenerator
	knowledge string
	logger    *zap.Logger
}

// NewGeminiGenerator returns ErrRemoteUnavailable when no API key is configured.
func NewGeminiGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, xerrors.ErrRemoteUnavailable
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = "gemini-1.5-pro"
	}
	model := client.GenerativeModel(name)
	temp := cfg.Temperature
	if temp == 0 {
		temp = 0.7
	}
	model.SetTemperature(temp)
	model.ResponseMIMEType = "application/json"

	return &GeminiGenerator{
		client:    client,
		model:     model,
		knowledge: truncateRunes(cfg.KnowledgeBase, cfg.MaxKnowledge),
		logger:    logger,
	}, nil
}

func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGenerator) GenerateStrategy(ctx context.Context, p business.Profile) (strategy.GeneratedStrategy, error) {
	prompt, err := BuildStrategyPrompt(g.knowledge, p)
	if err != nil {
		return strategy.GeneratedStrategy{}, err
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return strategy.GeneratedStrategy{}, err
	}
	return ParseStrategy(text)
}

func (g *GeminiGenerator) GenerateMarketingPlan(ctx context.Context, p business.Profile) (strategy.MarketingPlan, error) {
	prompt, err := BuildMarketingPrompt(g.knowledge, p)
	if err != nil {
		return strategy.MarketingPlan{}, err
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return strategy.MarketingPlan{}, err
	}
	return ParseMarketingPlan(text)
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	g.logger.Debug("gemini response received", zap.Int("length", b.Len()))
	return b.String(), nil
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
