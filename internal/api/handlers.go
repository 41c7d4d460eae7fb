package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockinsight/internal/importer"
	"stockinsight/internal/model"
	"stockinsight/internal/parser"
	"stockinsight/internal/pipeline"
)

// Handler serves the analysis API.
type Handler struct {
	pipe *pipeline.Pipeline
	log  *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(pipe *pipeline.Pipeline, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{pipe: pipe, log: log}
}

// RegisterRoutes mounts the API under the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.POST("/analyze", h.Analyze)
	rg.POST("/analyze/stream", h.AnalyzeStream)
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// Analyze accepts a multipart spreadsheet upload and returns the full
// analysis report.
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	table, ok := h.readUpload(c)
	if !ok {
		return
	}

	report, err := h.pipe.Run(table)
	if err != nil {
		h.writeRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeStream runs the same analysis but streams per-stage progress as
// server-sent events, with the report attached to the final event.
// POST /api/analyze/stream
func (h *Handler) AnalyzeStream(c *gin.Context) {
	table, ok := h.readUpload(c)
	if !ok {
		return
	}

	flusher, canFlush := c.Writer.(http.Flusher)
	if !canFlush {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	for event := range h.pipe.RunWithProgress(table) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// readUpload saves the multipart "file" field to a temp path and decodes it
// into a RawTable. On failure it writes the error response itself.
func (h *Handler) readUpload(c *gin.Context) (*model.RawTable, bool) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return nil, false
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("stockinsight_%d_%s", time.Now().UnixNano(), filepath.Base(uploaded.Filename)))
	if err := c.SaveUploadedFile(uploaded, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return nil, false
	}
	defer os.Remove(tempPath)

	t, err := importer.ReadFile(tempPath)
	if err != nil {
		h.log.Warn("upload decode failed", zap.String("file", uploaded.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return t, true
}

// writeRunError maps pipeline errors to responses: user-fixable input
// problems are 422 with the actionable message, everything else 500.
func (h *Handler) writeRunError(c *gin.Context, err error) {
	var roleErr *parser.RoleError
	switch {
	case errors.Is(err, parser.ErrNoData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "no_data"})
	case errors.As(err, &roleErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           roleErr.Error(),
			"kind":            "unresolved_column",
			"missingRole":     roleErr.Role,
			"examinedHeaders": roleErr.Headers,
		})
	default:
		h.log.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
