package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gobrain/internal/ingest"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
	"github.com/jonesrussell/gobrain/internal/storage"
	"github.com/jonesrussell/gobrain/internal/urlcheck"
)

// Orchestrator is the suggestion pipeline the handlers drive.
type Orchestrator interface {
	Suggest(ctx context.Context, content string) *ingest.Suggestion
	SuggestFile(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*ingest.Suggestion, error)
	SuggestPreview(ctx context.Context, rawURL string) (*ingest.Preview, error)
}

// Handler handles the brain API requests.
type Handler struct {
	orchestrator Orchestrator
	media        *storage.MediaStore
	notes        *storage.NoteStore
	logger       logger.Logger
	metrics      *metrics.Metrics
	serviceName  string
}

// NewHandler creates the API handler. metrics may be nil.
func NewHandler(
	orchestrator Orchestrator,
	media *storage.MediaStore,
	notes *storage.NoteStore,
	log logger.Logger,
	m *metrics.Metrics,
	serviceName string,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		media:        media,
		notes:        notes,
		logger:       log,
		metrics:      m,
		serviceName:  serviceName,
	}
}

// SuggestRequest is the body of POST /api/brain/suggest.
type SuggestRequest struct {
	Content string `json:"content"`
}

// SaveNoteRequest is the body of POST /api/brain/notes.
type SaveNoteRequest struct {
	NoteID           string   `json:"noteId"`
	EntryID          string   `json:"entryId"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Type             string   `json:"type"`
	Destination      string   `json:"destination"`
	Tags             []string `json:"tags"`
	MediaURL         string   `json:"mediaUrl"`
	MediaContentType string   `json:"mediaContentType"`
	CreatedAt        string   `json:"createdAt"`
}

// SavedNoteResponse is the response of POST /api/brain/notes.
type SavedNoteResponse struct {
	StorageID string `json:"storageId"`
	Filename  string `json:"filename"`
}

// Suggest handles POST /api/brain/suggest.
func (h *Handler) Suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid suggest request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.orchestrator.Suggest(c.Request.Context(), req.Content)
	c.JSON(http.StatusOK, result)
}

// SuggestFile handles POST /api/brain/suggest/file (multipart).
func (h *Handler) SuggestFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("could not open uploaded file", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer func() { _ = f.Close() }()

	result, err := h.orchestrator.SuggestFile(
		c.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		h.logger.Error("file suggestion failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process file"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Preview handles GET /api/brain/preview?url=...
func (h *Handler) Preview(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	preview, err := h.orchestrator.SuggestPreview(c.Request.Context(), rawURL)
	if err != nil {
		status := http.StatusBadRequest
		if !isValidationError(err) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// GetMedia handles GET /api/brain/media/:filename with single-range
// support for media playback.
func (h *Handler) GetMedia(c *gin.Context) {
	filename := c.Param("filename")

	path, size, contentType, err := h.media.Load(filename)
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load media"})
		return
	}

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		h.serveFull(c, path, size, contentType)
		return
	}

	byteRange, err := storage.ParseRange(rangeHeader, size)
	if errors.Is(err, storage.ErrNotByteRange) {
		h.serveFull(c, path, size, contentType)
		return
	}
	if err != nil {
		c.Header("Content-Range", "bytes */"+formatInt(size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	data, end, err := storage.ReadChunk(path, byteRange)
	if err != nil {
		// Disk trouble mid-range: fall back to the whole file.
		h.logger.Error("range read failed, serving full body",
			logger.String("filename", filename),
			logger.Error(err))
		h.serveFull(c, path, size, contentType)
		return
	}
	if len(data) == 0 {
		c.Header("Content-Range", "bytes */"+formatInt(size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	h.metrics.RecordMediaServed(int64(len(data)))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Range", "bytes "+formatInt(byteRange.Start)+"-"+formatInt(end)+"/"+formatInt(size))
	c.Data(http.StatusPartialContent, contentType, data)
}

// serveFull streams the whole file with a 200.
func (h *Handler) serveFull(c *gin.Context, path string, size int64, contentType string) {
	f, err := os.Open(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read media"})
		return
	}
	defer func() { _ = f.Close() }()

	h.metrics.RecordMediaServed(size)
	c.DataFromReader(http.StatusOK, size, contentType, f, map[string]string{
		"Accept-Ranges": "bytes",
	})
}

// DeleteMedia handles DELETE /api/brain/media/:filename. Idempotent.
func (h *Handler) DeleteMedia(c *gin.Context) {
	filename := c.Param("filename")

	if _, err := h.media.Delete(filename); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
			return
		}
		h.logger.Error("media delete failed",
			logger.String("filename", filename),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete media"})
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveNote handles POST /api/brain/notes.
func (h *Handler) SaveNote(c *gin.Context) {
	var req SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, storageID, err := h.notes.Save(storage.SaveParams{
		NoteID:           req.NoteID,
		EntryID:          req.EntryID,
		Title:            req.Title,
		Content:          req.Content,
		Type:             req.Type,
		Destination:      req.Destination,
		Tags:             req.Tags,
		MediaURL:         req.MediaURL,
		MediaContentType: req.MediaContentType,
		CreatedAt:        req.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
			return
		}
		h.logger.Error("note save failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save note"})
		return
	}

	c.JSON(http.StatusOK, SavedNoteResponse{StorageID: storageID, Filename: storageID})
}

// DeleteNote handles DELETE /api/brain/notes/:storageId. Idempotent.
func (h *Handler) DeleteNote(c *gin.Context) {
	h.notes.Delete(c.Param("storageId"))
	c.Status(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// isValidationError reports whether an error comes from URL validation
// rather than an internal failure.
func isValidationError(err error) bool {
	return errors.Is(err, urlcheck.ErrInvalidURL) ||
		errors.Is(err, urlcheck.ErrSchemeNotAllowed) ||
		errors.Is(err, urlcheck.ErrHostNotAllowed) ||
		errors.Is(err, urlcheck.ErrHostUnresolvable)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
