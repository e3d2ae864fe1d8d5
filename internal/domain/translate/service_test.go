package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

func TestTranslateEnglishIsIdentity(t *testing.T) {
	client := &stubChatClient{}
	svc := newServiceUnderTest(client)

	got, err := svc.Translate(context.Background(), "already english", "en")
	require.NoError(t, err)
	require.Equal(t, "already english", got)
	require.Equal(t, 0, client.calls)
}

func TestTranslateNonEnglish(t *testing.T) {
	client := &stubChatClient{content: "good morning everyone"}
	svc := newServiceUnderTest(client)

	got, err := svc.Translate(context.Background(), "dzien dobry wszystkim", "pl")
	require.NoError(t, err)
	require.Equal(t, "good morning everyone", got)
	require.Equal(t, 1, client.calls)
	require.Equal(t, "gpt-test", client.lastRequest.Model)
	require.Len(t, client.lastRequest.Messages, 2)
	require.Contains(t, client.lastRequest.Messages[1].Content, "Translate the following text to English:")
	require.Contains(t, client.lastRequest.Messages[1].Content, "dzien dobry wszystkim")
}

func TestTranslateProviderError(t *testing.T) {
	client := &stubChatClient{err: errors.New("boom")}
	svc := newServiceUnderTest(client)

	_, err := svc.Translate(context.Background(), "dzien dobry", "pl")
	require.True(t, apperrors.IsCode(err, apperrors.CodeTranslation))
}

func TestTranslateEmptyProviderResponse(t *testing.T) {
	client := &stubChatClient{content: "  "}
	svc := newServiceUnderTest(client)

	_, err := svc.Translate(context.Background(), "dzien dobry", "pl")
	require.True(t, apperrors.IsCode(err, apperrors.CodeTranslation))
}

func TestIsEnglish(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "en", want: true},
		{code: "EN", want: true},
		{code: "eng", want: true},
		{code: "english", want: true},
		{code: "en-US", want: true},
		{code: " en-gb ", want: true},
		{code: "pl", want: false},
		{code: "", want: false},
		{code: "enx", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, IsEnglish(tt.code))
		})
	}
}

func newServiceUnderTest(client ChatClient) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{Model: "gpt-test", Temperature: 0.2}, client, logger)
}

type stubChatClient struct {
	content     string
	err         error
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
	resp.Choices = []struct {
		Message openai.Message `json:"message"`
	}{
		{Message: openai.Message{Role: "assistant", Content: s.content}},
	}
	return resp, nil
}
