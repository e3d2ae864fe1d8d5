package summarize

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

func TestSummarizeSuccess(t *testing.T) {
	client := &stubChatClient{
		content: "Title\nA neat summary.",
		usage:   openai.Usage{PromptTokens: 100, CompletionTokens: 30, TotalTokens: 130},
	}
	svc := newServiceUnderTest(client, wordCounter{})

	got, err := svc.Summarize(context.Background(), pipeline.SummaryRequest{
		EnglishText: "some english text worth summarizing",
		Style:       pipeline.StyleParagraph,
		TargetWords: 120,
	})
	require.NoError(t, err)
	require.Equal(t, "Title\nA neat summary.", got.Summary)
	require.Equal(t, 130, got.Usage.TotalTokens)

	require.Equal(t, "gpt-test", client.lastRequest.Model)
	require.Len(t, client.lastRequest.Messages, 2)
	require.Equal(t, "system", client.lastRequest.Messages[0].Role)
	prompt := client.lastRequest.Messages[1].Content
	require.Contains(t, prompt, "approximately 120 words")
	require.Contains(t, prompt, "some english text worth summarizing")
	require.Contains(t, prompt, "flowing prose")
}

func TestSummarizeStyles(t *testing.T) {
	tests := []struct {
		name  string
		style pipeline.Style
		want  string
	}{
		{name: "paragraph", style: pipeline.StyleParagraph, want: "flowing prose"},
		{name: "bullets", style: pipeline.StyleBullets, want: "bullet points"},
		{name: "headline", style: pipeline.StyleHeadline, want: "two or three sentences"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &stubChatClient{content: "ok"}
			svc := newServiceUnderTest(client, wordCounter{})
			_, err := svc.Summarize(context.Background(), pipeline.SummaryRequest{EnglishText: "text", Style: tt.style})
			require.NoError(t, err)
			require.Contains(t, client.lastRequest.Messages[1].Content, tt.want)
		})
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	svc := newServiceUnderTest(&stubChatClient{}, wordCounter{})

	_, err := svc.Summarize(context.Background(), pipeline.SummaryRequest{EnglishText: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSummarizeOverTokenBudget(t *testing.T) {
	client := &stubChatClient{content: "never reached"}
	svc := newServiceUnderTest(client, fixedCounter{tokens: 5000})

	_, err := svc.Summarize(context.Background(), pipeline.SummaryRequest{EnglishText: "huge transcript"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeSummarization))
	require.Contains(t, err.Error(), "above the provider limit")
	require.Equal(t, 0, client.calls)
}

func TestSummarizeProviderError(t *testing.T) {
	client := &stubChatClient{err: errors.New("boom")}
	svc := newServiceUnderTest(client, wordCounter{})

	_, err := svc.Summarize(context.Background(), pipeline.SummaryRequest{EnglishText: "text"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeSummarization))
}

func TestClampWords(t *testing.T) {
	s := &service{cfg: Config{MinWords: 50, MaxWords: 300, DefaultWords: 150}}

	tests := []struct {
		name   string
		target int
		want   int
	}{
		{name: "zero means default", target: 0, want: 150},
		{name: "negative means default", target: -7, want: 150},
		{name: "below minimum", target: 10, want: 50},
		{name: "above maximum", target: 900, want: 300},
		{name: "in range", target: 200, want: 200},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, s.clampWords(tt.target))
		})
	}
}

func TestStreamSummary(t *testing.T) {
	client := &stubChatClient{stream: &stubStream{deltas: []string{"A growing", " summary", " text."}}}
	svc := newServiceUnderTest(client, wordCounter{})

	stream, err := svc.StreamSummary(context.Background(), pipeline.SummaryRequest{EnglishText: "stream me"})
	require.NoError(t, err)

	var chunks []StreamChunk
	for chunk := range stream {
		chunks = append(chunks, chunk)
	}

	require.Len(t, chunks, 4)
	require.Equal(t, "A growing", chunks[0].PartialSummary)
	require.Equal(t, "A growing summary", chunks[1].PartialSummary)
	require.Equal(t, "A growing summary text.", chunks[2].PartialSummary)
	require.True(t, chunks[3].Completed)
	require.Equal(t, "A growing summary text.", chunks[3].PartialSummary)
	require.True(t, client.stream.closed)
}

func TestStreamSummaryEmptyText(t *testing.T) {
	svc := newServiceUnderTest(&stubChatClient{}, wordCounter{})

	_, err := svc.StreamSummary(context.Background(), pipeline.SummaryRequest{EnglishText: ""})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func newServiceUnderTest(client ChatClient, counter tokenCounter) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &service{
		cfg: Config{
			Model:          "gpt-test",
			Temperature:    0.7,
			MaxInputTokens: 1000,
			MinWords:       50,
			MaxWords:       300,
			DefaultWords:   150,
		},
		client:   client,
		encoding: counter,
		logger:   logger,
	}
}

// wordCounter approximates one token per whitespace separated word.
type wordCounter struct{}

func (wordCounter) Encode(text string, _, _ []string) []int {
	return make([]int, len(strings.Fields(text)))
}

type fixedCounter struct{ tokens int }

func (f fixedCounter) Encode(string, []string, []string) []int {
	return make([]int, f.tokens)
}

type stubChatClient struct {
	content     string
	usage       openai.Usage
	err         error
	stream      *stubStream
	calls       int
	lastRequest openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	var resp openai.ChatCompletionResponse
	resp.Usage = s.usage
	resp.Choices = []struct {
		Message openai.Message `json:"message"`
	}{
		{Message: openai.Message{Role: "assistant", Content: s.content}},
	}
	return resp, nil
}

func (s *stubChatClient) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (openai.Stream, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.stream, nil
}

type stubStream struct {
	deltas []string
	next   int
	closed bool
}

func (s *stubStream) Recv() (openai.ChatCompletionStreamChunk, error) {
	if s.next >= len(s.deltas) {
		return openai.ChatCompletionStreamChunk{}, io.EOF
	}
	delta := s.deltas[s.next]
	s.next++
	var chunk openai.ChatCompletionStreamChunk
	chunk.Choices = []struct {
		Delta        openai.Message `json:"delta"`
		FinishReason string         `json:"finish_reason"`
	}{
		{Delta: openai.Message{Content: delta}},
	}
	return chunk, nil
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}
