package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gobrain/internal/logger"
)

func newTestNoteStore(t *testing.T) *NoteStore {
	t.Helper()
	s, err := NewNoteStore(t.TempDir(), logger.NewNop(), nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC) }
	return s
}

func TestNoteSave(t *testing.T) {
	s := newTestNoteStore(t)

	note, storageID, err := s.Save(SaveParams{
		NoteID:      "abc123",
		Title:       "Sanidad pública en España",
		Content:     "# Sanidad\n\nEl contenido de la nota.",
		Type:        "articulo",
		Destination: "apunte",
		Tags:        []string{"sanidad", "sanidad-publica"},
		CreatedAt:   "2025-03-15T10:30:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", note.ID)
	assert.Equal(t, "20250315103000-sanidad-publica-en-espana-abc123.md", storageID)

	data, err := os.ReadFile(filepath.Join(s.dir, storageID))
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, `id: "abc123"`)
	assert.Contains(t, content, `title: "Sanidad pública en España"`)
	assert.Contains(t, content, `destination: "apunte"`)
	assert.Contains(t, content, `type: "articulo"`)
	assert.Contains(t, content, `createdAt: "2025-03-15T10:30:00Z"`)
	assert.Contains(t, content, "tags:\n  - \"sanidad\"\n  - \"sanidad-publica\"")
	assert.Contains(t, content, "---\n\n# Sanidad\n\nEl contenido de la nota.\n")
	assert.True(t, strings.HasSuffix(content, "\n"))
	assert.False(t, strings.HasSuffix(content, "\n\n"))
}

func TestNoteSaveDefaults(t *testing.T) {
	s := newTestNoteStore(t)

	note, storageID, err := s.Save(SaveParams{Content: "cuerpo"})
	require.NoError(t, err)

	assert.Equal(t, "Nota sin título", note.Title)
	assert.True(t, strings.HasPrefix(note.ID, "note-"))
	assert.Contains(t, storageID, "nota-sin-titulo")
	assert.True(t, strings.HasSuffix(storageID, ".md"))

	data, err := os.ReadFile(filepath.Join(s.dir, storageID))
	require.NoError(t, err)
	// Optional fields are absent.
	assert.NotContains(t, string(data), "destination:")
	assert.NotContains(t, string(data), "entryId:")
	assert.NotContains(t, string(data), "mediaUrl:")
	assert.NotContains(t, string(data), "tags:")
}

func TestNoteSaveEscapesFrontMatter(t *testing.T) {
	s := newTestNoteStore(t)

	_, storageID, err := s.Save(SaveParams{
		NoteID:    "id1",
		Title:     `Título con "comillas" y \barra`,
		Content:   "x",
		CreatedAt: "2025-03-15T10:30:00Z",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.dir, storageID))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "Título con \"comillas\" y \\barra"`)
}

func TestNoteSaveMediaFields(t *testing.T) {
	s := newTestNoteStore(t)

	_, storageID, err := s.Save(SaveParams{
		NoteID:           "m1",
		Title:            "Audio",
		Content:          "x",
		EntryID:          "entry-9",
		MediaURL:         "/api/brain/media/abc.mp3",
		MediaContentType: "audio/mpeg",
		CreatedAt:        "2025-03-15T10:30:00Z",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.dir, storageID))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `entryId: "entry-9"`)
	assert.Contains(t, content, `mediaUrl: "/api/brain/media/abc.mp3"`)
	assert.Contains(t, content, `mediaContentType: "audio/mpeg"`)
}

func TestNoteFilenameCapped(t *testing.T) {
	s := newTestNoteStore(t)

	_, storageID, err := s.Save(SaveParams{
		NoteID:    "id",
		Title:     strings.Repeat("palabra ", 60),
		Content:   "x",
		CreatedAt: "2025-03-15T10:30:00Z",
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(storageID), maxFilenameBase+len(".md"))
}

func TestNoteDeleteIdempotent(t *testing.T) {
	s := newTestNoteStore(t)

	_, storageID, err := s.Save(SaveParams{NoteID: "d1", Title: "Borrar", Content: "x", CreatedAt: "2025-03-15T10:30:00Z"})
	require.NoError(t, err)

	s.Delete(storageID)
	_, statErr := os.Stat(filepath.Join(s.dir, storageID))
	assert.True(t, os.IsNotExist(statErr))

	// Second delete and hostile ids are no-ops.
	s.Delete(storageID)
	s.Delete("../fuera.md")
	s.Delete("")
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sanidad Pública", "sanidad-publica"},
		{"¡Hola, Mundo!", "hola-mundo"},
		{"Año añejo", "ano-anejo"},
		{"---", "nota"},
		{"", "nota"},
		{"ya-es-slug", "ya-es-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}
