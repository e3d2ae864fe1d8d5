package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
	"github.com/piotr-ziolo/SummarizeIt/pkg/metrics"
)

const systemPrompt = "You are an AI assistant that creates engaging and informative summaries of various types of input, such as videos, audio files, and text."

// ChatClient is the provider generate capability.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (openai.Stream, error)
}

// Config configures the summarizer.
type Config struct {
	Model          string
	Temperature    float32
	MaxInputTokens int
	TokenEncoding  string
	MinWords       int
	MaxWords       int
	DefaultWords   int
}

// StreamChunk represents a streaming update.
type StreamChunk struct {
	PartialSummary string `json:"partial_summary"`
	Completed      bool   `json:"completed"`
}

// Service produces summaries of English text.
type Service interface {
	Summarize(ctx context.Context, req pipeline.SummaryRequest) (pipeline.SummaryResult, error)
	StreamSummary(ctx context.Context, req pipeline.SummaryRequest) (<-chan StreamChunk, error)
}

// tokenCounter abstracts the tiktoken encoding used for the prompt budget.
type tokenCounter interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
}

type service struct {
	cfg      Config
	client   ChatClient
	encoding tokenCounter
	logger   *slog.Logger
}

// NewService is a wire provider for the summarizer. The token encoding is
// resolved once so the prompt budget check is cheap per request.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) (Service, error) {
	encoding, err := tiktoken.GetEncoding(cfg.TokenEncoding)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("unknown token encoding %q", cfg.TokenEncoding), err)
	}
	return &service{
		cfg:      cfg,
		client:   client,
		encoding: encoding,
		logger:   logger.With("component", "summarize.service"),
	}, nil
}

func (s *service) Summarize(ctx context.Context, req pipeline.SummaryRequest) (pipeline.SummaryResult, error) {
	messages, err := s.buildMessages(req)
	if err != nil {
		return pipeline.SummaryResult{}, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return pipeline.SummaryResult{}, apperrors.Wrap(apperrors.CodeSummarization, "summary request failed", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return pipeline.SummaryResult{}, apperrors.Wrap(apperrors.CodeSummarization, "provider returned no summary", nil)
	}

	return pipeline.SummaryResult{
		Summary: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (s *service) StreamSummary(ctx context.Context, req pipeline.SummaryRequest) (<-chan StreamChunk, error) {
	messages, err := s.buildMessages(req)
	if err != nil {
		return nil, err
	}

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSummarization, "summary stream request failed", err)
	}

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()

		var builder strings.Builder
		for {
			chunk, recvErr := stream.Recv()
			if recvErr != nil {
				if !errors.Is(recvErr, io.EOF) {
					s.logger.Error("summary stream recv failed", "error", recvErr)
				}
				break
			}
			grew := false
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					builder.WriteString(choice.Delta.Content)
					grew = true
				}
			}
			if !grew {
				continue
			}
			out <- StreamChunk{PartialSummary: builder.String()}
		}

		final := strings.TrimSpace(builder.String())
		if final == "" {
			return
		}
		out <- StreamChunk{PartialSummary: final, Completed: true}
	}()

	return out, nil
}

func (s *service) buildMessages(req pipeline.SummaryRequest) ([]openai.Message, error) {
	text := strings.TrimSpace(req.EnglishText)
	if text == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "text cannot be empty", nil)
	}

	userContent := s.buildPrompt(text, req.Style, s.clampWords(req.TargetWords))

	if tokens := len(s.encoding.Encode(userContent, nil, nil)); tokens > s.cfg.MaxInputTokens {
		return nil, apperrors.Wrap(apperrors.CodeSummarization,
			fmt.Sprintf("input is %d tokens, above the provider limit of %d", tokens, s.cfg.MaxInputTokens), nil)
	}

	return []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userContent},
	}, nil
}

func (s *service) buildPrompt(text string, style pipeline.Style, targetWords int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a summary of approximately %d words.\n", targetWords)
	b.WriteString("Create a short title for the summary.\n")
	b.WriteString("Include the most important points and key details.\n")
	b.WriteString("Be factual and concise. Do NOT include content that is not in the original text.\n")
	b.WriteString(styleInstruction(style))
	b.WriteString("\n\nText to summarize:\n")
	b.WriteString(text)
	return b.String()
}

func styleInstruction(style pipeline.Style) string {
	switch style {
	case pipeline.StyleBullets:
		return "Structure the summary as bullet points."
	case pipeline.StyleHeadline:
		return "Keep it to the title plus two or three sentences at most."
	default:
		return "Write the summary as flowing prose."
	}
}

func (s *service) clampWords(target int) int {
	if target <= 0 {
		return s.cfg.DefaultWords
	}
	if target < s.cfg.MinWords {
		return s.cfg.MinWords
	}
	if target > s.cfg.MaxWords {
		return s.cfg.MaxWords
	}
	return target
}
