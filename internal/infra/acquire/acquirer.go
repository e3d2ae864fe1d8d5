package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

// Downloader fetches the audio track of a remote video into destDir.
type Downloader interface {
	DownloadAudio(ctx context.Context, url, destDir string) (string, error)
}

// Config bounds acquisition behavior.
type Config struct {
	TempDir        string
	MaxUploadBytes int64
}

// Acquirer implements pipeline.Acquirer. Inline text involves no I/O; uploads
// and downloads produce a temp file owned by the returned acquisition.
type Acquirer struct {
	cfg        Config
	downloader Downloader
	logger     *slog.Logger
}

// New builds the acquirer.
func New(cfg Config, downloader Downloader, logger *slog.Logger) *Acquirer {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Acquirer{cfg: cfg, downloader: downloader, logger: logger.With("component", "acquire")}
}

// Acquire classifies the descriptor and materializes its content locally.
func (a *Acquirer) Acquire(ctx context.Context, desc pipeline.SourceDescriptor) (pipeline.Acquisition, error) {
	switch desc.Kind() {
	case pipeline.SourceInlineText:
		return pipeline.NewTextAcquisition(desc.Text()), nil
	case pipeline.SourceUpload:
		return a.acquireUpload(desc)
	case pipeline.SourceVideoURL:
		return a.acquireVideo(ctx, desc.URL())
	default:
		return pipeline.Acquisition{}, apperrors.Wrap(apperrors.CodeInvalidInput, "source descriptor has no variant", nil)
	}
}

func (a *Acquirer) acquireUpload(desc pipeline.SourceDescriptor) (pipeline.Acquisition, error) {
	data := desc.FileData()
	if a.cfg.MaxUploadBytes > 0 && int64(len(data)) > a.cfg.MaxUploadBytes {
		return pipeline.Acquisition{}, apperrors.Wrap(apperrors.CodeAcquisition,
			fmt.Sprintf("upload exceeds the %d byte limit", a.cfg.MaxUploadBytes), nil)
	}

	kind, err := classify(mimetype.Detect(data), desc.FileMime())
	if err != nil {
		return pipeline.Acquisition{}, err
	}
	if kind == pipeline.ContentText {
		return pipeline.NewTextAcquisition(string(data)), nil
	}

	path, err := a.writeTemp(desc.FileName(), data)
	if err != nil {
		return pipeline.Acquisition{}, apperrors.Wrap(apperrors.CodeAcquisition, "failed to stage uploaded file", err)
	}
	a.logger.Debug("upload staged", "path", path, "kind", kind.String(), "bytes", len(data))
	return pipeline.NewMediaAcquisition(kind, path, a.remover(path)), nil
}

func (a *Acquirer) acquireVideo(ctx context.Context, url string) (pipeline.Acquisition, error) {
	path, err := a.downloader.DownloadAudio(ctx, url, a.cfg.TempDir)
	if err != nil {
		return pipeline.Acquisition{}, apperrors.Wrap(apperrors.CodeAcquisition, "failed to download video audio", err)
	}
	a.logger.Debug("video audio downloaded", "path", path)
	return pipeline.NewMediaAcquisition(pipeline.ContentVideo, path, a.remover(path)), nil
}

func (a *Acquirer) writeTemp(originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	name := fmt.Sprintf("upload_%s%s", uuid.NewString(), ext)
	path := filepath.Join(a.cfg.TempDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Acquirer) remover(path string) func() {
	return func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("failed to remove temp file", "path", path, "error", err)
		}
	}
}

// classify maps the sniffed content type onto a ContentKind. The declared
// browser type only breaks ties when sniffing is inconclusive; a container
// whose sniffed and declared families disagree is rejected rather than
// guessed at.
func classify(detected *mimetype.MIME, declared string) (pipeline.ContentKind, error) {
	sniffed := familyOf(detected.String())
	stated := familyOf(declared)

	switch {
	case sniffed == "" && stated == "":
		return 0, apperrors.Wrap(apperrors.CodeAcquisition,
			fmt.Sprintf("unsupported content type %q", detected.String()), nil)
	case sniffed == "":
		return kindFor(stated), nil
	case stated == "" || stated == sniffed:
		return kindFor(sniffed), nil
	default:
		return 0, apperrors.Wrap(apperrors.CodeAcquisition,
			fmt.Sprintf("ambiguous content: declared %q but detected %q", declared, detected.String()), nil)
	}
}

func familyOf(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "text/"):
		return "text"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	default:
		return ""
	}
}

func kindFor(family string) pipeline.ContentKind {
	switch family {
	case "text":
		return pipeline.ContentText
	case "audio":
		return pipeline.ContentAudio
	default:
		return pipeline.ContentVideo
	}
}
