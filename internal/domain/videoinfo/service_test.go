package videoinfo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

func TestDetailsCacheMiss(t *testing.T) {
	details := youtube.VideoDetails{ID: "dQw4w9WgXcQ", Title: "A talk", Author: "Someone"}
	client := &stubVideoClient{details: details}
	cache := &stubCache{}
	svc := newServiceUnderTest(client, cache)

	got, err := svc.Details(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, details, got)
	require.Equal(t, 1, client.calls)
	require.Equal(t, "dQw4w9WgXcQ", cache.lastSetID)
	require.Equal(t, 10*time.Minute, cache.lastTTL)
}

func TestDetailsCacheHit(t *testing.T) {
	cached := youtube.VideoDetails{ID: "dQw4w9WgXcQ", Title: "Cached talk"}
	client := &stubVideoClient{}
	cache := &stubCache{hit: true, details: cached}
	svc := newServiceUnderTest(client, cache)

	got, err := svc.Details(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, cached, got)
	require.Equal(t, 0, client.calls)
}

func TestDetailsCacheReadFailureFallsThrough(t *testing.T) {
	details := youtube.VideoDetails{ID: "dQw4w9WgXcQ", Title: "A talk"}
	client := &stubVideoClient{details: details}
	cache := &stubCache{getErr: errors.New("redis down")}
	svc := newServiceUnderTest(client, cache)

	got, err := svc.Details(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, details, got)
	require.Equal(t, 1, client.calls)
}

func TestDetailsInvalidURL(t *testing.T) {
	svc := newServiceUnderTest(&stubVideoClient{}, &stubCache{})

	_, err := svc.Details(context.Background(), "https://example.com/not-a-video")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestDetailsFetchFailure(t *testing.T) {
	client := &stubVideoClient{err: errors.New("player request error")}
	svc := newServiceUnderTest(client, &stubCache{})

	_, err := svc.Details(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAcquisition))
}

func newServiceUnderTest(client VideoClient, cache Cache) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{CacheTTL: 10 * time.Minute}, client, cache, logger)
}

type stubVideoClient struct {
	details youtube.VideoDetails
	err     error
	calls   int
}

func (s *stubVideoClient) GetVideoDetails(ctx context.Context, url string) (youtube.VideoDetails, error) {
	s.calls++
	if s.err != nil {
		return youtube.VideoDetails{}, s.err
	}
	return s.details, nil
}

type stubCache struct {
	hit       bool
	details   youtube.VideoDetails
	getErr    error
	lastSetID string
	lastTTL   time.Duration
}

func (s *stubCache) Get(ctx context.Context, videoID string) (youtube.VideoDetails, bool, error) {
	if s.getErr != nil {
		return youtube.VideoDetails{}, false, s.getErr
	}
	return s.details, s.hit, nil
}

func (s *stubCache) Set(ctx context.Context, videoID string, details youtube.VideoDetails, ttl time.Duration) error {
	s.lastSetID = videoID
	s.lastTTL = ttl
	return nil
}
