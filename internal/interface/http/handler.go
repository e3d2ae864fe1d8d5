package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piotr-ziolo/SummarizeIt/internal/domain/pipeline"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/summarize"
	"github.com/piotr-ziolo/SummarizeIt/internal/domain/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/artifacts"
	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
	"github.com/piotr-ziolo/SummarizeIt/pkg/metrics"
)

// Handler wires the HTTP transport to the pipeline and its sibling services.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	summarizer   summarize.Service
	videoInfoSvc videoinfo.Service
	artifactSvc  artifacts.Store
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(orchestrator *pipeline.Orchestrator, summarizer summarize.Service, videoInfoSvc videoinfo.Service, artifactSvc artifacts.Store, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		summarizer:   summarizer,
		videoInfoSvc: videoInfoSvc,
		artifactSvc:  artifactSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

type textSummaryRequest struct {
	Text        string `json:"text"`
	Style       string `json:"style,omitempty"`
	TargetWords int    `json:"targetWords,omitempty"`
}

type videoSummaryRequest struct {
	URL         string `json:"url"`
	Style       string `json:"style,omitempty"`
	TargetWords int    `json:"targetWords,omitempty"`
}

type summaryResponse struct {
	RunID        string                  `json:"runId"`
	Summary      string                  `json:"summary"`
	Transcript   string                  `json:"transcript,omitempty"`
	LanguageCode string                  `json:"languageCode,omitempty"`
	Trace        []pipeline.State        `json:"trace"`
	Stages       []metrics.StageDuration `json:"stages,omitempty"`
	TokenUsage   *metrics.TokenUsage     `json:"tokenUsage,omitempty"`
	Artifacts    map[string]string       `json:"artifacts,omitempty"`
}

// SummarizeText handles direct text input.
func (h *Handler) SummarizeText(c *gin.Context) {
	var req textSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.run(c, pipeline.InlineText(req.Text), req.Style, req.TargetWords)
}

// SummarizeUpload handles multipart file uploads (text, audio or video).
func (h *Handler) SummarizeUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}

	targetWords := 0
	if raw := c.PostForm("targetWords"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "targetWords must be a number", parseErr))
			return
		}
		targetWords = parsed
	}

	desc := pipeline.UploadedFile(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	h.run(c, desc, c.PostForm("style"), targetWords)
}

// SummarizeVideo handles YouTube links.
func (h *Handler) SummarizeVideo(c *gin.Context) {
	var req videoSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.run(c, pipeline.VideoURL(req.URL), req.Style, req.TargetWords)
}

func (h *Handler) run(c *gin.Context, desc pipeline.SourceDescriptor, styleRaw string, targetWords int) {
	style, err := pipeline.ParseStyle(styleRaw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	report := h.orchestrator.Run(c.Request.Context(), desc, pipeline.Options{Style: style, TargetWords: targetWords})
	if report.State == pipeline.StateFailed {
		abortWithError(c, runError(report.Err))
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(c, report))
}

func (h *Handler) buildResponse(c *gin.Context, report pipeline.Report) summaryResponse {
	resp := summaryResponse{
		RunID:        report.RunID,
		Summary:      report.Summary,
		Transcript:   report.Transcript,
		LanguageCode: report.LanguageCode,
		Trace:        report.Trace,
		Stages:       report.Stages,
	}
	if !report.Usage.IsZero() {
		usage := report.Usage
		resp.TokenUsage = &usage
	}
	resp.Artifacts = h.storeArtifacts(c, report)
	return resp
}

// storeArtifacts backs the UI's download buttons. Best effort only.
func (h *Handler) storeArtifacts(c *gin.Context, report pipeline.Report) map[string]string {
	if h.artifactSvc == nil {
		return nil
	}
	links := make(map[string]string, 2)
	put := func(kind, content string) {
		if content == "" {
			return
		}
		if err := h.artifactSvc.Put(c.Request.Context(), report.RunID, kind, []byte(content), "text/plain; charset=utf-8"); err != nil {
			h.logger.Warn("artifact store failed", "runId", report.RunID, "kind", kind, "error", err)
			return
		}
		links[kind] = fmt.Sprintf("/api/v1/artifacts/%s/%s", report.RunID, kind)
	}
	put(artifacts.KindSummary, report.Summary)
	put(artifacts.KindTranscript, report.Transcript)
	if len(links) == 0 {
		return nil
	}
	return links
}

// DownloadArtifact serves a stored transcript or summary.
func (h *Handler) DownloadArtifact(c *gin.Context) {
	runID := c.Param("runID")
	kind := c.Param("kind")
	if !artifacts.IsKind(kind) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "unknown artifact kind", nil))
		return
	}
	data, mimeType, err := h.artifactSvc.Get(c.Request.Context(), runID, kind)
	if err != nil {
		if errors.Is(err, artifacts.ErrNotFound) {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "artifact expired or does not exist", err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "artifact_failed", errMessage(err), err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, kind))
	c.Data(http.StatusOK, mimeType, data)
}

// SummarizeTextStream streams partial summaries using Server-Sent Events.
// Only inline text goes through here; media inputs use the sync endpoints.
func (h *Handler) SummarizeTextStream(c *gin.Context) {
	var req textSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	style, err := pipeline.ParseStyle(req.Style)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	stream, err := h.summarizer.StreamSummary(c.Request.Context(), pipeline.SummaryRequest{
		EnglishText: req.Text,
		Style:       style,
		TargetWords: req.TargetWords,
	})
	if err != nil {
		abortWithError(c, runError(err))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}

	for chunk := range stream {
		payload, marshalErr := json.Marshal(chunk)
		if marshalErr != nil {
			h.logger.Error("marshal chunk failed", "error", marshalErr)
			continue
		}
		c.Writer.Write([]byte("data: "))
		c.Writer.Write(payload)
		c.Writer.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

// VideoInfo returns the details panel for a video link.
func (h *Handler) VideoInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "url query parameter is required", nil))
		return
	}
	details, err := h.videoInfoSvc.Details(c.Request.Context(), url)
	if err != nil {
		abortWithError(c, runError(err))
		return
	}
	c.JSON(http.StatusOK, details)
}

// runError maps pipeline error codes onto HTTP statuses: bad input and
// unusable sources are the caller's problem, provider failures are gateway
// errors, and a missing credential is ours.
func runError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := apperrors.CodeOf(err)
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeAcquisition:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeTranscription, apperrors.CodeTranslation, apperrors.CodeSummarization:
		status = http.StatusBadGateway
	case apperrors.CodeConfiguration:
		status = http.StatusInternalServerError
	default:
		code = "internal_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
