// Package domain defines the core types shared across the gobrain service.
package domain

import "time"

// Content kinds produced by extraction.
const (
	KindText  = "text"
	KindLink  = "link"
	KindVideo = "video"
)

// Content types assigned by classification.
const (
	TypeNota     = "nota"
	TypeVideo    = "video"
	TypeLink     = "link"
	TypeCodigo   = "codigo"
	TypeTutorial = "tutorial"
	TypeArticulo = "articulo"
	TypeAudio    = "audio"
)

// Destinations a classified entry can be routed to.
const (
	DestApunte  = "apunte"
	DestIdea    = "idea"
	DestRecurso = "recurso"
	DestTarea   = "tarea"
)

// ExtractedContent is the result of extracting a URL. Extraction never
// fails outward: on any error the fields degrade to safe fallbacks.
type ExtractedContent struct {
	Title       string
	Description string
	Content     string
	Kind        string
}

// Suggestion is the classification result for a piece of content.
// Every field is always populated; classification is a total function.
type Suggestion struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	DetailedContent string   `json:"detailedContent"`
	Destination     string   `json:"destination"`
	Tags            []string `json:"tags"`
}

// Note is a persisted markdown note with front matter.
type Note struct {
	ID               string
	EntryID          string
	Title            string
	Content          string
	Type             string
	Destination      string
	Tags             []string
	MediaURL         string
	MediaContentType string
	CreatedAt        time.Time
}

// StoredMedia describes a media file placed in the media store.
type StoredMedia struct {
	Name        string
	Size        int64
	ContentType string
}
