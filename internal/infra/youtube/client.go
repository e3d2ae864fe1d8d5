package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://www.youtube.com"

	// The Android innertube client hands out directly playable stream URLs,
	// which avoids the whole player-js signature dance.
	androidClientName    = "ANDROID"
	androidClientVersion = "19.09.37"
	androidSDKVersion    = 30
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoDetails describes a video for the pre-summary info panel.
type VideoDetails struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ViewCount     int64  `json:"viewCount"`
	LengthSeconds int64  `json:"lengthSeconds"`
	PublishDate   string `json:"publishDate,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
}

// Client resolves video metadata and audio streams via the innertube API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a resolver client. baseURL is overridable for tests.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
		logger: logger.With("component", "youtube.client"),
	}
}

// ParseVideoID extracts the 11 character video id from the URL forms the UI
// accepts: watch?v=, youtu.be/, shorts/, embed/, or a bare id.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid video url: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(parsed.Path, prefix), "/")
				if videoIDPattern.MatchString(id) {
					return id, nil
				}
			}
		}
	case "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if videoIDPattern.MatchString(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("not a recognizable video url: %q", raw)
}

// GetVideoDetails fetches the metadata panel for a video.
func (c *Client) GetVideoDetails(ctx context.Context, rawURL string) (VideoDetails, error) {
	videoID, err := ParseVideoID(rawURL)
	if err != nil {
		return VideoDetails{}, err
	}
	player, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return VideoDetails{}, err
	}
	return player.details(videoID), nil
}

// DownloadAudio resolves the best audio-only stream and downloads it into
// destDir. The caller owns the returned file and its cleanup.
func (c *Client) DownloadAudio(ctx context.Context, rawURL, destDir string) (string, error) {
	videoID, err := ParseVideoID(rawURL)
	if err != nil {
		return "", err
	}
	player, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return "", err
	}

	format, ok := selectAudioFormat(player.StreamingData.AdaptiveFormats)
	if !ok {
		return "", fmt.Errorf("video %s has no audio-only stream", videoID)
	}
	c.logger.Debug("audio format selected", "videoId", videoID, "itag", format.Itag, "bitrate", format.Bitrate, "mimeType", format.MimeType)

	name := fmt.Sprintf("yt_%s_%s%s", videoID, uuid.NewString(), extensionForMime(format.MimeType))
	destPath := filepath.Join(destDir, name)

	if err := c.downloadTo(ctx, format.URL, destPath); err != nil {
		os.Remove(destPath)
		return "", err
	}
	return destPath, nil
}

func (c *Client) downloadTo(ctx context.Context, streamURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open audio stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio stream open failed: status=%d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("download audio: %w", err)
	}
	return out.Close()
}

func (c *Client) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	payload, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:        androidClientName,
				ClientVersion:     androidClientVersion,
				AndroidSDKVersion: androidSDKVersion,
				HL:                "en",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode player request: %w", err)
	}

	endpoint := c.baseURL + "/youtubei/v1/player?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("com.google.android.youtube/%s (Linux; U; Android 11) gzip", androidClientVersion))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("player request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	if status := player.PlayabilityStatus.Status; status != "" && status != "OK" {
		reason := player.PlayabilityStatus.Reason
		if reason == "" {
			reason = status
		}
		return nil, fmt.Errorf("video %s not playable: %s", videoID, reason)
	}
	return &player, nil
}

func selectAudioFormat(formats []adaptiveFormat) (adaptiveFormat, bool) {
	audio := make([]adaptiveFormat, 0, len(formats))
	for _, f := range formats {
		if strings.HasPrefix(f.MimeType, "audio/") && f.URL != "" {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return adaptiveFormat{}, false
	}
	sort.Slice(audio, func(i, j int) bool { return audio[i].Bitrate > audio[j].Bitrate })
	return audio[0], true
}

func extensionForMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/mp4"):
		return ".m4a"
	case strings.HasPrefix(mimeType, "audio/webm"):
		return ".webm"
	default:
		return ".m4a"
	}
}

type playerRequest struct {
	VideoID string           `json:"videoId"`
	Context innertubeContext `json:"context"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSDKVersion int    `json:"androidSdkVersion,omitempty"`
	HL                string `json:"hl,omitempty"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	StreamingData struct {
		AdaptiveFormats []adaptiveFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		ViewCount     string `json:"viewCount"`
		LengthSeconds string `json:"lengthSeconds"`
		Thumbnail     struct {
			Thumbnails []struct {
				URL    string `json:"url"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

type adaptiveFormat struct {
	Itag     int    `json:"itag"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Bitrate  int    `json:"bitrate"`
}

func (p *playerResponse) details(videoID string) VideoDetails {
	d := VideoDetails{
		ID:          videoID,
		Title:       p.VideoDetails.Title,
		Author:      p.VideoDetails.Author,
		PublishDate: p.Microformat.PlayerMicroformatRenderer.PublishDate,
	}
	if p.VideoDetails.VideoID != "" {
		d.ID = p.VideoDetails.VideoID
	}
	if n, err := strconv.ParseInt(p.VideoDetails.ViewCount, 10, 64); err == nil {
		d.ViewCount = n
	}
	if n, err := strconv.ParseInt(p.VideoDetails.LengthSeconds, 10, 64); err == nil {
		d.LengthSeconds = n
	}
	// Largest thumbnail wins; the list is usually ascending but not always.
	best := -1
	for _, t := range p.VideoDetails.Thumbnail.Thumbnails {
		if area := t.Width * t.Height; area > best {
			best = area
			d.ThumbnailURL = t.URL
		}
	}
	return d
}
