package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gobrain/internal/domain"
	"github.com/jonesrussell/gobrain/internal/ingest"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/storage"
	"github.com/jonesrussell/gobrain/internal/urlcheck"
)

// stubOrchestrator implements Orchestrator for handler tests.
type stubOrchestrator struct {
	suggestion *ingest.Suggestion
	preview    *ingest.Preview
	previewErr error
	gotContent string
	gotFile    string
}

func (s *stubOrchestrator) Suggest(_ context.Context, content string) *ingest.Suggestion {
	s.gotContent = content
	return s.suggestion
}

func (s *stubOrchestrator) SuggestFile(_ context.Context, originalName, _ string, _ int64, r io.Reader) (*ingest.Suggestion, error) {
	s.gotFile = originalName
	_, _ = io.Copy(io.Discard, r)
	return s.suggestion, nil
}

func (s *stubOrchestrator) SuggestPreview(_ context.Context, rawURL string) (*ingest.Preview, error) {
	if s.previewErr != nil {
		return nil, s.previewErr
	}
	return s.preview, nil
}

func defaultSuggestion() *ingest.Suggestion {
	return &ingest.Suggestion{
		Suggestion: domain.Suggestion{
			Type:            domain.TypeNota,
			Title:           "Prueba",
			Summary:         "Un resumen",
			DetailedContent: "# Prueba",
			Destination:     domain.DestApunte,
			Tags:            []string{"tecnologia"},
		},
	}
}

type testEnv struct {
	router       *gin.Engine
	orchestrator *stubOrchestrator
	media        *storage.MediaStore
	mediaDir     string
	notesDir     string
}

func setupTestEnv(t *testing.T, apiToken string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	mediaDir := t.TempDir()
	notesDir := t.TempDir()

	media, err := storage.NewMediaStore(mediaDir, log, nil)
	require.NoError(t, err)
	notes, err := storage.NewNoteStore(notesDir, log, nil)
	require.NoError(t, err)

	orchestrator := &stubOrchestrator{suggestion: defaultSuggestion()}
	handler := NewHandler(orchestrator, media, notes, log, nil, "digital-brain")

	router := gin.New()
	SetupRoutes(router, handler, nil, apiToken)

	return &testEnv{
		router:       router,
		orchestrator: orchestrator,
		media:        media,
		mediaDir:     mediaDir,
		notesDir:     notesDir,
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "digital-brain", resp["service"])
}

func TestSuggest(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodPost, "/api/brain/suggest",
		SuggestRequest{Content: "https://example.com/articulo"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/articulo", env.orchestrator.gotContent)

	var resp ingest.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Prueba", resp.Title)
	assert.Equal(t, domain.DestApunte, resp.Destination)
}

func TestSuggestInvalidBody(t *testing.T) {
	env := setupTestEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/brain/suggest",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestFile(t *testing.T) {
	env := setupTestEnv(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "grabacion.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("audio bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/brain/suggest/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "grabacion.mp3", env.orchestrator.gotFile)
}

func TestSuggestFileMissing(t *testing.T) {
	env := setupTestEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/brain/suggest/file", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreview(t *testing.T) {
	env := setupTestEnv(t, "")
	env.orchestrator.preview = &ingest.Preview{
		URL:     "https://example.com",
		Type:    domain.TypeArticulo,
		Title:   "Ejemplo",
		Snippet: "Contenido",
	}

	w := doJSON(t, env.router, http.MethodGet, "/api/brain/preview?url=https://example.com", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ingest.Preview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ejemplo", resp.Title)

	// The snippet must serialize under the key the frontend reads.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "contentSnippet")
	assert.Equal(t, "Contenido", raw["contentSnippet"])
	assert.NotContains(t, raw, "snippet")
}

func TestPreviewMissingURL(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodGet, "/api/brain/preview", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewRejectedURL(t *testing.T) {
	env := setupTestEnv(t, "")
	env.orchestrator.previewErr = urlcheck.ErrHostNotAllowed

	w := doJSON(t, env.router, http.MethodGet, "/api/brain/preview?url=http://localhost", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func storeTestMedia(t *testing.T, env *testEnv, content string) string {
	t.Helper()
	name, err := env.media.Store("cancion.mp3", strings.NewReader(content))
	require.NoError(t, err)
	return name
}

func TestGetMediaFull(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "abcdefghij")

	w := doJSON(t, env.router, http.MethodGet, "/api/brain/media/"+name, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abcdefghij", w.Body.String())
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
}

func TestGetMediaPartial(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "abcdefghij")

	req := httptest.NewRequest(http.MethodGet, "/api/brain/media/"+name, nil)
	req.Header.Set("Range", "bytes=2-5")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "cdef", w.Body.String())
	assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
}

func TestGetMediaSuffixRange(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "abcdefghij")

	req := httptest.NewRequest(http.MethodGet, "/api/brain/media/"+name, nil)
	req.Header.Set("Range", "bytes=-3")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "hij", w.Body.String())
	assert.Equal(t, "bytes 7-9/10", w.Header().Get("Content-Range"))
}

func TestGetMediaIgnoresNonByteRange(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "abcdefghij")

	req := httptest.NewRequest(http.MethodGet, "/api/brain/media/"+name, nil)
	req.Header.Set("Range", "items=0-10")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abcdefghij", w.Body.String())
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
}

func TestGetMediaRangeNotSatisfiable(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "abcdefghij")

	req := httptest.NewRequest(http.MethodGet, "/api/brain/media/"+name, nil)
	req.Header.Set("Range", "bytes=50-60")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
	assert.Equal(t, "bytes */10", w.Header().Get("Content-Range"))
}

func TestGetMediaNotFound(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodGet, "/api/brain/media/nope.mp3", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMedia(t *testing.T) {
	env := setupTestEnv(t, "")
	name := storeTestMedia(t, env, "datos")

	w := doJSON(t, env.router, http.MethodDelete, "/api/brain/media/"+name, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	_, err := os.Stat(filepath.Join(env.mediaDir, name))
	assert.True(t, os.IsNotExist(err))

	// Second delete still succeeds.
	w = doJSON(t, env.router, http.MethodDelete, "/api/brain/media/"+name, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSaveNote(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodPost, "/api/brain/notes", SaveNoteRequest{
		NoteID:      "abc123",
		Title:       "Sanidad pública",
		Content:     "# Sanidad\n\nContenido.",
		Type:        domain.TypeNota,
		Destination: domain.DestApunte,
		Tags:        []string{"sanidad"},
		CreatedAt:   "2025-03-15T10:30:00Z",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp SavedNoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.StorageID)
	assert.True(t, strings.HasSuffix(resp.StorageID, ".md"))

	_, err := os.Stat(filepath.Join(env.notesDir, resp.StorageID))
	assert.NoError(t, err)
}

func TestDeleteNote(t *testing.T) {
	env := setupTestEnv(t, "")

	w := doJSON(t, env.router, http.MethodPost, "/api/brain/notes", SaveNoteRequest{
		Title:   "Para borrar",
		Content: "contenido",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp SavedNoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, env.router, http.MethodDelete, "/api/brain/notes/"+resp.StorageID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	_, err := os.Stat(filepath.Join(env.notesDir, resp.StorageID))
	assert.True(t, os.IsNotExist(err))

	// Deleting an unknown note is still a 204.
	w = doJSON(t, env.router, http.MethodDelete, "/api/brain/notes/desconocido.md", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := setupTestEnv(t, "secreto")

	w := doJSON(t, env.router, http.MethodPost, "/api/brain/suggest",
		SuggestRequest{Content: "hola"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/brain/suggest",
		strings.NewReader(`{"content":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secreto")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open.
	w = doJSON(t, env.router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
