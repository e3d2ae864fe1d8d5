package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Provider  ProviderConfig  `yaml:"provider"`
	Summary   SummaryConfig   `yaml:"summary"`
	Acquire   AcquireConfig   `yaml:"acquire"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	VideoInfo VideoInfoConfig `yaml:"videoInfo"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ProviderConfig contains settings for the hosted AI provider.
type ProviderConfig struct {
	APIKey             string  `yaml:"apiKey"`
	BaseURL            string  `yaml:"baseUrl"`
	ChatModel          string  `yaml:"chatModel"`
	TranscriptionModel string  `yaml:"transcriptionModel"`
	Temperature        float32 `yaml:"temperature"`
	MaxInputTokens     int     `yaml:"maxInputTokens"`
	TokenEncoding      string  `yaml:"tokenEncoding"`
}

// SummaryConfig bounds the summary options exposed to the UI.
type SummaryConfig struct {
	MinWords     int `yaml:"minWords"`
	MaxWords     int `yaml:"maxWords"`
	DefaultWords int `yaml:"defaultWords"`
}

// AcquireConfig controls media acquisition.
type AcquireConfig struct {
	TempDir        string `yaml:"tempDir"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// YouTubeConfig points the resolver at the video source.
type YouTubeConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// ArtifactsConfig controls the transcript/summary download store.
type ArtifactsConfig struct {
	TTL time.Duration `yaml:"ttl"`
	S3  S3Config      `yaml:"s3"`
}

// S3Config contains connection information for an S3-compatible store.
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// VideoInfoConfig controls the video details cache.
type VideoInfoConfig struct {
	CacheTTL time.Duration `yaml:"cacheTtl"`
	Redis    RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_CHAT_MODEL"); v != "" {
		cfg.Provider.ChatModel = v
	}
	if v := os.Getenv("PROVIDER_TRANSCRIPTION_MODEL"); v != "" {
		cfg.Provider.TranscriptionModel = v
	}
	if v := os.Getenv("PROVIDER_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Provider.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("PROVIDER_MAX_INPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Provider.MaxInputTokens = parsed
		}
	}
	if v := os.Getenv("SUMMARY_DEFAULT_WORDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Summary.DefaultWords = parsed
		}
	}
	if v := os.Getenv("ACQUIRE_TEMP_DIR"); v != "" {
		cfg.Acquire.TempDir = v
	}
	if v := os.Getenv("ACQUIRE_MAX_UPLOAD_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Acquire.MaxUploadBytes = parsed
		}
	}
	if v := os.Getenv("YOUTUBE_BASE_URL"); v != "" {
		cfg.YouTube.BaseURL = v
	}
	if v := os.Getenv("ARTIFACTS_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Artifacts.TTL = parsed
		}
	}
	if v := os.Getenv("ARTIFACTS_S3_ENABLED"); v != "" {
		cfg.Artifacts.S3.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ARTIFACTS_S3_ENDPOINT"); v != "" {
		cfg.Artifacts.S3.Endpoint = v
	}
	if v := os.Getenv("ARTIFACTS_S3_ACCESS_KEY"); v != "" {
		cfg.Artifacts.S3.AccessKey = v
	}
	if v := os.Getenv("ARTIFACTS_S3_SECRET_KEY"); v != "" {
		cfg.Artifacts.S3.SecretKey = v
	}
	if v := os.Getenv("ARTIFACTS_S3_BUCKET"); v != "" {
		cfg.Artifacts.S3.Bucket = v
	}
	if v := os.Getenv("ARTIFACTS_S3_REGION"); v != "" {
		cfg.Artifacts.S3.Region = v
	}
	if v := os.Getenv("VIDEO_INFO_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.VideoInfo.CacheTTL = parsed
		}
	}
	if v := os.Getenv("VIDEO_INFO_REDIS_ENABLED"); v != "" {
		cfg.VideoInfo.Redis.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VIDEO_INFO_REDIS_ADDR"); v != "" {
		cfg.VideoInfo.Redis.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address: ":8080",
			// Uploads can be large; the read timeout covers the whole body.
			ReadTimeout:  120 * time.Second,
			WriteTimeout: 300 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Provider: ProviderConfig{
			ChatModel:          "gpt-4o-mini",
			TranscriptionModel: "whisper-1",
			Temperature:        1.0,
			MaxInputTokens:     100_000,
			TokenEncoding:      "cl100k_base",
		},
		Summary: SummaryConfig{
			MinWords:     50,
			MaxWords:     300,
			DefaultWords: 150,
		},
		Acquire: AcquireConfig{
			TempDir:        os.TempDir(),
			MaxUploadBytes: 25 << 20,
		},
		YouTube: YouTubeConfig{
			BaseURL: "https://www.youtube.com",
		},
		Artifacts: ArtifactsConfig{
			TTL: time.Hour,
			S3: S3Config{
				Enabled: false,
				Bucket:  "summarizeit-artifacts",
			},
		},
		VideoInfo: VideoInfoConfig{
			CacheTTL: 10 * time.Minute,
			Redis: RedisConfig{
				Enabled: false,
				Addr:    "",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Provider.ChatModel == "" {
		return errors.New("provider.chatModel cannot be empty")
	}
	if c.Provider.TranscriptionModel == "" {
		return errors.New("provider.transcriptionModel cannot be empty")
	}
	if c.Provider.MaxInputTokens <= 0 {
		return errors.New("provider.maxInputTokens must be positive")
	}
	if strings.TrimSpace(c.Provider.TokenEncoding) == "" {
		return errors.New("provider.tokenEncoding cannot be empty")
	}
	if c.Summary.MinWords <= 0 || c.Summary.MaxWords < c.Summary.MinWords {
		return errors.New("summary word bounds are inconsistent")
	}
	if c.Summary.DefaultWords < c.Summary.MinWords || c.Summary.DefaultWords > c.Summary.MaxWords {
		return errors.New("summary.defaultWords must sit inside the word bounds")
	}
	if c.Acquire.MaxUploadBytes <= 0 {
		return errors.New("acquire.maxUploadBytes must be positive")
	}
	if c.YouTube.BaseURL == "" {
		return errors.New("youtube.baseUrl cannot be empty")
	}
	if c.Artifacts.TTL < 0 {
		return errors.New("artifacts.ttl cannot be negative")
	}
	if c.Artifacts.S3.Enabled {
		if strings.TrimSpace(c.Artifacts.S3.Endpoint) == "" {
			return errors.New("artifacts.s3.endpoint cannot be empty when s3 is enabled")
		}
		if strings.TrimSpace(c.Artifacts.S3.Bucket) == "" {
			return errors.New("artifacts.s3.bucket cannot be empty when s3 is enabled")
		}
	}
	if c.VideoInfo.Redis.Enabled && strings.TrimSpace(c.VideoInfo.Redis.Addr) == "" {
		return errors.New("videoInfo.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
