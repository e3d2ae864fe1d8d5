package videoinfo

import (
	"context"
	"log/slog"
	"time"

	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

// VideoClient resolves video metadata from the source site.
type VideoClient interface {
	GetVideoDetails(ctx context.Context, url string) (youtube.VideoDetails, error)
}

// Cache holds recently resolved details; the UI re-renders its info panel on
// every interaction, so lookups repeat within seconds.
type Cache interface {
	Get(ctx context.Context, videoID string) (youtube.VideoDetails, bool, error)
	Set(ctx context.Context, videoID string, details youtube.VideoDetails, ttl time.Duration) error
}

// Config controls cache behavior.
type Config struct {
	CacheTTL time.Duration
}

// Service serves the pre-summary video details panel.
type Service interface {
	Details(ctx context.Context, url string) (youtube.VideoDetails, error)
}

type service struct {
	cfg    Config
	client VideoClient
	cache  Cache
	logger *slog.Logger
}

// NewService is a wire provider for the video details domain.
func NewService(cfg Config, client VideoClient, cache Cache, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, cache: cache, logger: logger.With("component", "videoinfo.service")}
}

func (s *service) Details(ctx context.Context, url string) (youtube.VideoDetails, error) {
	videoID, err := youtube.ParseVideoID(url)
	if err != nil {
		return youtube.VideoDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "not a valid video url", err)
	}

	if cached, ok, cacheErr := s.cache.Get(ctx, videoID); cacheErr != nil {
		s.logger.Warn("video info cache read failed", "error", cacheErr)
	} else if ok {
		return cached, nil
	}

	details, err := s.client.GetVideoDetails(ctx, url)
	if err != nil {
		return youtube.VideoDetails{}, apperrors.Wrap(apperrors.CodeAcquisition, "failed to fetch video details", err)
	}

	if err := s.cache.Set(ctx, videoID, details, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("video info cache write failed", "error", err)
	}
	return details, nil
}
