package ai

import (
	"context"
	"fmt"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds the AI gateway connection settings.
type Config struct {
	APIKey      string
	BaseURL     string // OpenAI-compatible gateway, e.g. https://ai.gateway.lovable.dev/v1
	Model       string
	Temperature float32
}

// Analyst performs the two one-shot calls against the hosted AI
// gateway: pertinence analysis for a single gloss, and drafting the
// response letter for a whole invoice.
type Analyst struct {
	client      *openai.Client
	hasKey      bool
	model       string
	temperature float32
	logger      *zap.Logger
}

// ErrMissingAPIKey is returned before any network call when the
// gateway credential is not configured.
var ErrMissingAPIKey = fmt.Errorf("AI gateway API key not configured")

// NewAnalyst creates a gateway-backed analyst.
func NewAnalyst(cfg Config, logger *zap.Logger) *Analyst {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Analyst{
		client:      openai.NewClientWithConfig(clientCfg),
		hasKey:      cfg.APIKey != "",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// AnalyzeGloss requests a pertinence analysis for one disputed service
// line. The returned text is free-form; decision extraction is a
// separate heuristic step (see InferDecision).
func (a *Analyst) AnalyzeGloss(ctx context.Context, service *models.ServiceLine) (string, error) {
	a.logger.Info("Analyzing gloss",
		zap.String("factura", service.Factura),
		zap.String("codigo_servicio", service.CodigoServicio))

	text, err := a.complete(ctx, glossSystemPrompt, buildGlossPrompt(service))
	if err != nil {
		a.logger.Error("Gloss analysis failed", zap.Error(err))
		return "", fmt.Errorf("failed to analyze gloss: %w", err)
	}

	a.logger.Info("Gloss analysis completed",
		zap.String("factura", service.Factura),
		zap.Int("analysis_chars", len(text)))
	return text, nil
}

// GenerateLetter requests a formal response letter covering every
// analyzed gloss of the invoice.
func (a *Analyst) GenerateLetter(ctx context.Context, invoice *models.InvoiceSummary, glosas []models.GlossAnalysis) (string, error) {
	a.logger.Info("Generating response letter",
		zap.String("factura", invoice.Factura),
		zap.Int("glosas", len(glosas)))

	text, err := a.complete(ctx, letterSystemPrompt, buildLetterPrompt(invoice, glosas))
	if err != nil {
		a.logger.Error("Letter generation failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate response letter: %w", err)
	}

	a.logger.Info("Response letter generated",
		zap.String("factura", invoice.Factura),
		zap.Int("letter_chars", len(text)))
	return text, nil
}

func (a *Analyst) complete(ctx context.Context, system, user string) (string, error) {
	if !a.hasKey {
		return "", ErrMissingAPIKey
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("AI gateway call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from AI gateway")
	}

	return resp.Choices[0].Message.Content, nil
}
