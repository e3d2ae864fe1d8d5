package videoinfo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	domain "github.com/piotr-ziolo/SummarizeIt/internal/domain/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
)

// ValkeyCache keeps video details in a Valkey-compatible database so several
// instances share one lookup.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "videoinfo"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements videoinfo.Cache.
func (c *ValkeyCache) Get(ctx context.Context, videoID string) (youtube.VideoDetails, bool, error) {
	cmd := c.client.B().Get().Key(c.key(videoID)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return youtube.VideoDetails{}, false, nil
		}
		return youtube.VideoDetails{}, false, err
	}
	var details youtube.VideoDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return youtube.VideoDetails{}, false, err
	}
	return details, true, nil
}

// Set caches details with optional TTL.
func (c *ValkeyCache) Set(ctx context.Context, videoID string, details youtube.VideoDetails, ttl time.Duration) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(videoID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(videoID string) string {
	return c.prefix + ":" + videoID
}

var _ domain.Cache = (*ValkeyCache)(nil)
