package pipeline

import (
	"fmt"
	"strings"

	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
	"github.com/piotr-ziolo/SummarizeIt/pkg/metrics"
)

// SourceKind discriminates the tagged union inside SourceDescriptor.
type SourceKind int

const (
	SourceInlineText SourceKind = iota + 1
	SourceUpload
	SourceVideoURL
)

// SourceDescriptor is the immutable description of what the user submitted.
// Exactly one variant is populated; constructors are the only way to build one.
type SourceDescriptor struct {
	kind     SourceKind
	text     string
	fileName string
	fileMime string
	fileData []byte
	videoURL string
}

// InlineText describes raw text typed into the form.
func InlineText(text string) SourceDescriptor {
	return SourceDescriptor{kind: SourceInlineText, text: text}
}

// UploadedFile describes a browser upload with its declared media type.
func UploadedFile(name, declaredMime string, data []byte) SourceDescriptor {
	return SourceDescriptor{kind: SourceUpload, fileName: name, fileMime: declaredMime, fileData: data}
}

// VideoURL describes a video link to fetch and transcribe.
func VideoURL(u string) SourceDescriptor {
	return SourceDescriptor{kind: SourceVideoURL, videoURL: u}
}

func (d SourceDescriptor) Kind() SourceKind { return d.kind }
func (d SourceDescriptor) Text() string     { return d.text }
func (d SourceDescriptor) FileName() string { return d.fileName }
func (d SourceDescriptor) FileMime() string { return d.fileMime }
func (d SourceDescriptor) FileData() []byte { return d.fileData }
func (d SourceDescriptor) URL() string      { return d.videoURL }

// Validate enforces the exactly-one-variant invariant.
func (d SourceDescriptor) Validate() error {
	switch d.kind {
	case SourceInlineText:
		if strings.TrimSpace(d.text) == "" {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "text cannot be empty", nil)
		}
	case SourceUpload:
		if len(d.fileData) == 0 {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "uploaded file is empty", nil)
		}
	case SourceVideoURL:
		if strings.TrimSpace(d.videoURL) == "" {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "video url cannot be empty", nil)
		}
	default:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "source descriptor has no variant", nil)
	}
	return nil
}

// ContentKind determines which pipeline stages run.
type ContentKind int

const (
	ContentText ContentKind = iota + 1
	ContentAudio
	ContentVideo
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentAudio:
		return "audio"
	case ContentVideo:
		return "video"
	default:
		return fmt.Sprintf("ContentKind(%d)", int(k))
	}
}

// State names a node of the orchestrator state machine.
type State string

const (
	StateStart        State = "start"
	StateAcquiring    State = "acquiring"
	StateTranscribing State = "transcribing"
	StateTranslating  State = "translating"
	StateSummarizing  State = "summarizing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Acquisition is what the media acquirer hands to the rest of the pipeline:
// either inline text or a local media file scoped to this run.
type Acquisition struct {
	Kind ContentKind
	Text string
	Path string

	release func()
}

// NewTextAcquisition wraps content that needs no transcription.
func NewTextAcquisition(text string) Acquisition {
	return Acquisition{Kind: ContentText, Text: text}
}

// NewMediaAcquisition wraps a temp media file plus its cleanup.
func NewMediaAcquisition(kind ContentKind, path string, release func()) Acquisition {
	return Acquisition{Kind: kind, Path: path, release: release}
}

// Release frees the temp file. Safe to call for text acquisitions.
func (a Acquisition) Release() {
	if a.release != nil {
		a.release()
	}
}

// Transcription is the speech-to-text output consumed by the translator.
type Transcription struct {
	Text         string
	LanguageCode string
	DurationSec  float64
}

// Style selects the shape of the generated summary.
type Style string

const (
	StyleParagraph Style = "paragraph"
	StyleBullets   Style = "bullets"
	StyleHeadline  Style = "headline"
)

// ParseStyle validates a user supplied style string; empty means paragraph.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return StyleParagraph, nil
	case StyleParagraph:
		return StyleParagraph, nil
	case StyleBullets:
		return StyleBullets, nil
	case StyleHeadline:
		return StyleHeadline, nil
	default:
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown summary style %q", s), nil)
	}
}

// SummaryRequest carries English text plus the user chosen options.
type SummaryRequest struct {
	EnglishText string
	Style       Style
	TargetWords int
}

// SummaryResult is the terminal artifact of a run.
type SummaryResult struct {
	Summary string
	Usage   metrics.TokenUsage
}

// Options are the user chosen knobs for one run.
type Options struct {
	Style       Style
	TargetWords int
}

// Report is everything the transport layer needs about a finished run.
type Report struct {
	RunID        string
	State        State
	Trace        []State
	Summary      string
	Transcript   string
	LanguageCode string
	Stages       []metrics.StageDuration
	Usage        metrics.TokenUsage
	Err          error
}
