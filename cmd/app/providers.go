package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/summarize"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/transcribe"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/translate"
	domainvideoinfo "github.com/piotr-ziolo/SummarizeIt/internal/domain/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/acquire"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/artifacts"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/config"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	infravideoinfo "github.com/piotr-ziolo/SummarizeIt/internal/infra/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
)

func provideOpenAIClient(cfg *config.Config) (*openai.Client, error) {
	return openai.NewClient(cfg.Provider.APIKey, cfg.Provider.BaseURL)
}

func provideYouTubeClient(cfg *config.Config, logger *slog.Logger) *youtube.Client {
	return youtube.NewClient(cfg.YouTube.BaseURL, logger)
}

func provideAcquirer(cfg *config.Config, downloader acquire.Downloader, logger *slog.Logger) *acquire.Acquirer {
	return acquire.New(acquire.Config{
		TempDir:        cfg.Acquire.TempDir,
		MaxUploadBytes: cfg.Acquire.MaxUploadBytes,
	}, downloader, logger)
}

func provideTranscribeConfig(cfg *config.Config) transcribe.Config {
	return transcribe.Config{
		Model:    cfg.Provider.TranscriptionModel,
		MaxBytes: cfg.Acquire.MaxUploadBytes,
	}
}

func provideTranslateConfig(cfg *config.Config) translate.Config {
	return translate.Config{
		Model:       cfg.Provider.ChatModel,
		Temperature: cfg.Provider.Temperature,
	}
}

func provideSummarizeConfig(cfg *config.Config) summarize.Config {
	return summarize.Config{
		Model:          cfg.Provider.ChatModel,
		Temperature:    cfg.Provider.Temperature,
		MaxInputTokens: cfg.Provider.MaxInputTokens,
		TokenEncoding:  cfg.Provider.TokenEncoding,
		MinWords:       cfg.Summary.MinWords,
		MaxWords:       cfg.Summary.MaxWords,
		DefaultWords:   cfg.Summary.DefaultWords,
	}
}

func provideVideoInfoConfig(cfg *config.Config) domainvideoinfo.Config {
	return domainvideoinfo.Config{CacheTTL: cfg.VideoInfo.CacheTTL}
}

func provideVideoInfoCache(cfg *config.Config, logger *slog.Logger) domainvideoinfo.Cache {
	if cfg.VideoInfo.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg.VideoInfo.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return infravideoinfo.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return infravideoinfo.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("video info valkey cache enabled", "addr", cfg.VideoInfo.Redis.Addr)
			return infravideoinfo.NewValkeyCache(client, "videoinfo")
		}
	}
	return infravideoinfo.NewMemoryCache()
}

func provideArtifactStore(cfg *config.Config, logger *slog.Logger) artifacts.Store {
	fallback := artifacts.NewMemoryStore(cfg.Artifacts.TTL)
	if !cfg.Artifacts.S3.Enabled {
		return fallback
	}
	s3 := cfg.Artifacts.S3
	store, err := artifacts.NewMinioStore(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
	if err != nil {
		logger.Error("failed to initialize s3 artifact store, using memory store", "error", err)
		return fallback
	}
	logger.Info("s3 artifact store enabled", "bucket", s3.Bucket)
	return store
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
