package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
	"github.com/piotr-ziolo/SummarizeIt/pkg/metrics"
)

// Acquirer turns a source descriptor into local, readable content.
type Acquirer interface {
	Acquire(ctx context.Context, desc SourceDescriptor) (Acquisition, error)
}

// Transcriber converts a local audio/video file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (Transcription, error)
}

// Translator returns English text; it is the identity for English input.
type Translator interface {
	Translate(ctx context.Context, text, languageCode string) (string, error)
}

// Summarizer produces the final summary from English text.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (SummaryResult, error)
}

// Orchestrator sequences the pipeline stages as a small state machine.
type Orchestrator struct {
	acquirer    Acquirer
	transcriber Transcriber
	translator  Translator
	summarizer  Summarizer
	logger      *slog.Logger
}

// NewOrchestrator wires the four stages together.
func NewOrchestrator(acquirer Acquirer, transcriber Transcriber, translator Translator, summarizer Summarizer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		acquirer:    acquirer,
		transcriber: transcriber,
		translator:  translator,
		summarizer:  summarizer,
		logger:      logger.With("component", "pipeline.orchestrator"),
	}
}

// Run processes a single request start to finish. It never returns an error:
// failures land in the report with State == StateFailed and Err set, so the
// transport layer always gets the trace and stage timings for display. The
// temp file from acquisition is released on every exit path.
func (o *Orchestrator) Run(ctx context.Context, desc SourceDescriptor, opts Options) Report {
	report := Report{
		RunID: uuid.NewString(),
		State: StateStart,
		Trace: []State{StateStart},
	}
	log := o.logger.With("runId", report.RunID)

	if err := desc.Validate(); err != nil {
		return o.fail(log, &report, err)
	}

	var (
		acq     Acquisition
		english string
	)
	defer func() { acq.Release() }()

	state := StateAcquiring
	for {
		o.enter(&report, state)

		switch state {
		case StateAcquiring:
			var err error
			acq, err = o.timedAcquire(ctx, &report, desc)
			if err != nil {
				return o.fail(log, &report, err)
			}
			log.Info("content acquired", "kind", acq.Kind.String())
			if acq.Kind == ContentText {
				english = acq.Text
				state = StateSummarizing
			} else {
				state = StateTranscribing
			}

		case StateTranscribing:
			started := time.Now()
			transcription, err := o.transcriber.Transcribe(ctx, acq.Path)
			o.record(&report, StateTranscribing, started)
			if err != nil {
				return o.fail(log, &report, err)
			}
			log.Info("transcription complete", "language", transcription.LanguageCode, "durationSec", transcription.DurationSec)
			report.LanguageCode = transcription.LanguageCode
			report.Transcript = transcription.Text
			english = transcription.Text
			state = StateTranslating

		case StateTranslating:
			started := time.Now()
			translated, err := o.translator.Translate(ctx, english, report.LanguageCode)
			o.record(&report, StateTranslating, started)
			if err != nil {
				return o.fail(log, &report, err)
			}
			english = translated
			report.Transcript = translated
			state = StateSummarizing

		case StateSummarizing:
			started := time.Now()
			result, err := o.summarizer.Summarize(ctx, SummaryRequest{
				EnglishText: english,
				Style:       opts.Style,
				TargetWords: opts.TargetWords,
			})
			o.record(&report, StateSummarizing, started)
			if err != nil {
				return o.fail(log, &report, err)
			}
			report.Summary = result.Summary
			report.Usage = report.Usage.Add(result.Usage)
			state = StateDone

		case StateDone:
			log.Info("pipeline finished", "trace", report.Trace)
			return report
		}
	}
}

func (o *Orchestrator) enter(report *Report, state State) {
	report.State = state
	report.Trace = append(report.Trace, state)
}

func (o *Orchestrator) timedAcquire(ctx context.Context, report *Report, desc SourceDescriptor) (Acquisition, error) {
	started := time.Now()
	acq, err := o.acquirer.Acquire(ctx, desc)
	o.record(report, StateAcquiring, started)
	return acq, err
}

func (o *Orchestrator) record(report *Report, stage State, started time.Time) {
	report.Stages = append(report.Stages, metrics.StageDuration{
		Stage:      string(stage),
		DurationMs: time.Since(started).Milliseconds(),
	})
}

func (o *Orchestrator) fail(log *slog.Logger, report *Report, err error) Report {
	report.State = StateFailed
	report.Trace = append(report.Trace, StateFailed)
	report.Err = err
	// Failed runs surface only the error; no partial output escapes.
	report.Summary = ""
	report.Transcript = ""
	log.Warn("pipeline failed", "code", apperrors.CodeOf(err), "error", err)
	return *report
}
