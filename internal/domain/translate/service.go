package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

const systemPrompt = "You are an AI assistant that translates text to different languages."

// ChatClient is the provider generate capability used with a translation prompt.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the translator.
type Config struct {
	Model       string
	Temperature float32
}

// Service produces English text from a transcript in any language.
type Service interface {
	Translate(ctx context.Context, text, languageCode string) (string, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService is a wire provider for the translator.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "translate.service")}
}

// Translate is the identity for English sources; the remote call only
// happens for other languages.
func (s *service) Translate(ctx context.Context, text, languageCode string) (string, error) {
	if IsEnglish(languageCode) {
		return text, nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []openai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Translate the following text to English:\n" + text},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeTranslation, "translation request failed", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", apperrors.Wrap(apperrors.CodeTranslation, "provider returned no translation", nil)
	}

	s.logger.Debug("transcript translated", "sourceLanguage", languageCode)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsEnglish accepts bare and regional English codes plus whisper's full name.
func IsEnglish(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "en" || code == "eng" || code == "english" || strings.HasPrefix(code, "en-")
}
