//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/piotr-ziolo/SummarizeIt/internal/bootstrap"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/summarize"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/transcribe"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/translate"
	domainvideoinfo "github.com/piotr-ziolo/SummarizeIt/internal/domain/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/acquire"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/config"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/llm/openai"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
	httpiface "github.com/piotr-ziolo/SummarizeIt/internal/interface/http"
	"github.com/piotr-ziolo/SummarizeIt/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideOpenAIClient,
		provideYouTubeClient,
		provideAcquirer,
		provideTranscribeConfig,
		provideTranslateConfig,
		provideSummarizeConfig,
		provideVideoInfoConfig,
		provideVideoInfoCache,
		provideArtifactStore,
		transcribe.NewService,
		translate.NewService,
		summarize.NewService,
		domainvideoinfo.NewService,
		pipeline.NewOrchestrator,
		wire.Bind(new(acquire.Downloader), new(*youtube.Client)),
		wire.Bind(new(domainvideoinfo.VideoClient), new(*youtube.Client)),
		wire.Bind(new(transcribe.AudioClient), new(*openai.Client)),
		wire.Bind(new(translate.ChatClient), new(*openai.Client)),
		wire.Bind(new(summarize.ChatClient), new(*openai.Client)),
		wire.Bind(new(pipeline.Acquirer), new(*acquire.Acquirer)),
		wire.Bind(new(pipeline.Transcriber), new(transcribe.Service)),
		wire.Bind(new(pipeline.Translator), new(translate.Service)),
		wire.Bind(new(pipeline.Summarizer), new(summarize.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
