package transcribe

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

func TestTranscribeSuccess(t *testing.T) {
	path := writeMedia(t, "talk.mp3", []byte("fake audio"))
	client := &stubAudioClient{resp: openai.TranscriptionResponse{
		Text:     "dzien dobry wszystkim",
		Language: "Polish",
		Duration: 42.5,
	}}
	svc := newServiceUnderTest(client, 0)

	got, err := svc.Transcribe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "dzien dobry wszystkim", got.Text)
	require.Equal(t, "pl", got.LanguageCode)
	require.Equal(t, 42.5, got.DurationSec)
	require.Equal(t, "whisper-test", client.lastRequest.Model)
	require.Equal(t, path, client.lastRequest.Filename)
}

func TestTranscribeMissingFile(t *testing.T) {
	svc := newServiceUnderTest(&stubAudioClient{}, 0)

	_, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.mp3"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeTranscription))
}

func TestTranscribeFileTooLarge(t *testing.T) {
	path := writeMedia(t, "talk.mp3", []byte("more than eight bytes of audio"))
	client := &stubAudioClient{}
	svc := newServiceUnderTest(client, 8)

	_, err := svc.Transcribe(context.Background(), path)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTranscription))
	require.Contains(t, err.Error(), "byte limit")
	require.Equal(t, 0, client.calls)
}

func TestTranscribeEmptyTranscript(t *testing.T) {
	path := writeMedia(t, "talk.mp3", []byte("fake audio"))
	client := &stubAudioClient{resp: openai.TranscriptionResponse{Text: "   "}}
	svc := newServiceUnderTest(client, 0)

	_, err := svc.Transcribe(context.Background(), path)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTranscription))
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "full name", raw: "English", want: "en"},
		{name: "polish", raw: "polish", want: "pl"},
		{name: "already a code", raw: "de", want: "de"},
		{name: "unknown passes through", raw: "Klingon", want: "klingon"},
		{name: "whitespace trimmed", raw: "  Japanese ", want: "ja"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, normalizeLanguage(tt.raw))
		})
	}
}

func newServiceUnderTest(client AudioClient, maxBytes int64) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{Model: "whisper-test", MaxBytes: maxBytes}, client, logger)
}

func writeMedia(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type stubAudioClient struct {
	resp        openai.TranscriptionResponse
	err         error
	calls       int
	lastRequest openai.TranscriptionRequest
}

func (s *stubAudioClient) CreateTranscription(ctx context.Context, req openai.TranscriptionRequest) (openai.TranscriptionResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return openai.TranscriptionResponse{}, s.err
	}
	return s.resp, nil
}
