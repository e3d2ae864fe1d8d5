package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

// AudioClient is the provider speech-to-text capability.
type AudioClient interface {
	CreateTranscription(ctx context.Context, req openai.TranscriptionRequest) (openai.TranscriptionResponse, error)
}

// Config configures the transcriber.
type Config struct {
	Model    string
	MaxBytes int64
}

// Service converts local media files into text.
type Service interface {
	Transcribe(ctx context.Context, mediaPath string) (pipeline.Transcription, error)
}

type service struct {
	cfg    Config
	client AudioClient
	logger *slog.Logger
}

// NewService is a wire provider for the transcriber.
func NewService(cfg Config, client AudioClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "transcribe.service")}
}

func (s *service) Transcribe(ctx context.Context, mediaPath string) (pipeline.Transcription, error) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return pipeline.Transcription{}, apperrors.Wrap(apperrors.CodeTranscription, "media file is not readable", err)
	}
	defer f.Close()

	if s.cfg.MaxBytes > 0 {
		stat, err := f.Stat()
		if err != nil {
			return pipeline.Transcription{}, apperrors.Wrap(apperrors.CodeTranscription, "media file is not readable", err)
		}
		if stat.Size() > s.cfg.MaxBytes {
			return pipeline.Transcription{}, apperrors.Wrap(apperrors.CodeTranscription,
				fmt.Sprintf("media exceeds the provider's %d byte limit", s.cfg.MaxBytes), nil)
		}
	}

	resp, err := s.client.CreateTranscription(ctx, openai.TranscriptionRequest{
		Model:    s.cfg.Model,
		Filename: mediaPath,
		Audio:    f,
	})
	if err != nil {
		return pipeline.Transcription{}, apperrors.Wrap(apperrors.CodeTranscription, "speech-to-text request failed", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return pipeline.Transcription{}, apperrors.Wrap(apperrors.CodeTranscription, "provider returned an empty transcript", nil)
	}

	lang := normalizeLanguage(resp.Language)
	s.logger.Debug("transcription received", "language", lang, "chars", len(resp.Text))

	return pipeline.Transcription{
		Text:         resp.Text,
		LanguageCode: lang,
		DurationSec:  resp.Duration,
	}, nil
}

// Whisper's verbose payload reports full language names; downstream wants
// ISO codes. Unknown names pass through unchanged.
var languageCodes = map[string]string{
	"english":    "en",
	"polish":     "pl",
	"german":     "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"ukrainian":  "uk",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"arabic":     "ar",
	"hindi":      "hi",
	"turkish":    "tr",
	"vietnamese": "vi",
}

func normalizeLanguage(raw string) string {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return lang
}
