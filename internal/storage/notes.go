package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/gobrain/internal/domain"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
)

const maxFilenameBase = 180

// NoteStore persists notes as markdown files with YAML front matter in
// a flat directory meant to be versioned with git.
type NoteStore struct {
	dir     string
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewNoteStore creates the store and its directory. metrics may be nil.
func NewNoteStore(dir string, log logger.Logger, m *metrics.Metrics) (*NoteStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve notes dir: %w", err)
	}
	if mkErr := os.MkdirAll(abs, 0o755); mkErr != nil {
		return nil, fmt.Errorf("create notes dir: %w", mkErr)
	}
	log.Info("notes directory ready", logger.String("dir", abs))
	return &NoteStore{dir: abs, logger: log, metrics: m, now: time.Now}, nil
}

// SaveParams are the fields persisted into a note file. CreatedAt is
// kept as the client-provided string so timestamps round-trip verbatim.
type SaveParams struct {
	NoteID           string
	EntryID          string
	Title            string
	Content          string
	Type             string
	Destination      string
	Tags             []string
	MediaURL         string
	MediaContentType string
	CreatedAt        string
}

// Save writes the note to disk, deriving a stable filename from the
// creation date, title and id. The returned storage id doubles as the
// filename.
func (s *NoteStore) Save(params SaveParams) (*domain.Note, string, error) {
	noteID := strings.TrimSpace(params.NoteID)
	if noteID == "" {
		noteID = fmt.Sprintf("note-%d", s.now().UnixMilli())
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = "Nota sin título"
	}

	createdAt := strings.TrimSpace(params.CreatedAt)
	if createdAt == "" {
		createdAt = s.now().UTC().Format(time.RFC3339Nano)
	}

	filename := s.buildFilename(createdAt, title, noteID)
	path, err := resolveWithinRoot(s.dir, filename)
	if err != nil {
		return nil, "", err
	}

	markdown := buildMarkdown(params, noteID, title, createdAt)
	if writeErr := os.WriteFile(path, []byte(markdown), 0o644); writeErr != nil {
		return nil, "", fmt.Errorf("write note: %w", writeErr)
	}

	s.logger.Info("note saved",
		logger.String("filename", filename),
		logger.String("title", title))
	s.metrics.RecordNoteSaved()

	note := &domain.Note{
		ID:               noteID,
		EntryID:          strings.TrimSpace(params.EntryID),
		Title:            title,
		Content:          params.Content,
		Type:             strings.TrimSpace(params.Type),
		Destination:      strings.TrimSpace(params.Destination),
		Tags:             params.Tags,
		MediaURL:         strings.TrimSpace(params.MediaURL),
		MediaContentType: strings.TrimSpace(params.MediaContentType),
	}
	return note, filename, nil
}

// Delete removes a note by its storage id. Idempotent: a missing file
// or an unsafe id is not an error.
func (s *NoteStore) Delete(storageID string) {
	safe := safeFilename(storageID)
	if safe == "" {
		return
	}

	path, err := resolveWithinRoot(s.dir, safe)
	if err != nil {
		return
	}

	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		s.logger.Warn("could not delete note",
			logger.String("storage_id", safe),
			logger.Error(rmErr))
	}
}

// buildFilename derives "{date-digits}-{slug}-{id}.md" capped at a safe
// length. The date part keeps at most 14 digits (yyyyMMddHHmmss).
func (s *NoteStore) buildFilename(createdAt, title, noteID string) string {
	var digits strings.Builder
	for _, r := range createdAt {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
		if digits.Len() == 14 {
			break
		}
	}
	datePart := digits.String()
	if datePart == "" {
		datePart = fmt.Sprintf("%d", s.now().UnixMilli())
	}

	idPart := safeFilename(noteID)
	if idPart == "" {
		idPart = "note"
	}

	base := datePart + "-" + slugify(title) + "-" + idPart
	if len(base) > maxFilenameBase {
		base = base[:maxFilenameBase]
	}
	return base + ".md"
}

// slugify lowercases the title, folds accents and collapses everything
// else into hyphens.
func slugify(input string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(strings.TrimSpace(input)))
	if err != nil {
		folded = strings.ToLower(input)
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "nota"
	}
	return slug
}

// buildMarkdown renders the front matter and body. Optional fields are
// omitted entirely when empty.
func buildMarkdown(params SaveParams, noteID, title, createdAt string) string {
	var b strings.Builder

	writeField := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": \"")
		b.WriteString(escapeYAML(value))
		b.WriteString("\"\n")
	}

	b.WriteString("---\n")
	writeField("id", noteID)
	writeField("title", title)
	if dest := strings.TrimSpace(params.Destination); dest != "" {
		writeField("destination", dest)
	}
	if typ := strings.TrimSpace(params.Type); typ != "" {
		writeField("type", typ)
	}
	if entryID := strings.TrimSpace(params.EntryID); entryID != "" {
		writeField("entryId", entryID)
	}
	writeField("createdAt", createdAt)

	var tags []string
	for _, tag := range params.Tags {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		b.WriteString("tags:\n")
		for _, t := range tags {
			b.WriteString("  - \"")
			b.WriteString(escapeYAML(t))
			b.WriteString("\"\n")
		}
	}

	if mediaURL := strings.TrimSpace(params.MediaURL); mediaURL != "" {
		writeField("mediaUrl", mediaURL)
	}
	if mediaCT := strings.TrimSpace(params.MediaContentType); mediaCT != "" {
		writeField("mediaContentType", mediaCT)
	}

	b.WriteString("---\n\n")
	b.WriteString(params.Content)
	if !strings.HasSuffix(params.Content, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

func escapeYAML(input string) string {
	return strings.ReplaceAll(strings.ReplaceAll(input, `\`, `\\`), `"`, `\"`)
}
