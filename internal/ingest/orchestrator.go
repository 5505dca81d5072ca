// Package ingest coordinates the full suggestion pipeline: URL
// detection, safe extraction, classification and media storage.
package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonesrussell/gobrain/internal/domain"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/storage"
	"github.com/jonesrussell/gobrain/internal/urlcheck"
)

const previewSnippetLen = 1200

// ContentClassifier produces a suggestion for any content.
type ContentClassifier interface {
	Classify(ctx context.Context, content string) *domain.Suggestion
}

// ContentExtractor extracts URLs into analyzable text.
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) *domain.ExtractedContent
}

// Orchestrator wires the suggestion pipeline together.
type Orchestrator struct {
	checker    *urlcheck.Checker
	extractor  ContentExtractor
	classifier ContentClassifier
	media      *storage.MediaStore
	logger     logger.Logger
}

// New creates an Orchestrator.
func New(
	checker *urlcheck.Checker,
	ext ContentExtractor,
	cls ContentClassifier,
	media *storage.MediaStore,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		checker:    checker,
		extractor:  ext,
		classifier: cls,
		media:      media,
		logger:     log,
	}
}

// Suggestion is the pipeline result, extending the classification with
// media fields for file uploads.
type Suggestion struct {
	domain.Suggestion
	MediaURL         string `json:"mediaUrl,omitempty"`
	MediaContentType string `json:"mediaContentType,omitempty"`
}

// Preview is the extraction-only view of a URL.
type Preview struct {
	URL         string `json:"url"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Snippet     string `json:"contentSnippet"`
}

// Suggest runs the full pipeline over free-form content. URLs are
// extracted first; extraction or validation failures fall back to
// classifying the raw input, so Suggest never fails.
func (o *Orchestrator) Suggest(ctx context.Context, content string) *Suggestion {
	input := strings.TrimSpace(content)
	if input == "" {
		s := o.classifier.Classify(ctx, "")
		return &Suggestion{Suggestion: *s}
	}

	contentToAnalyze := input
	var extracted *domain.ExtractedContent

	if IsURL(input) {
		target := urlcheck.Normalize(input)
		if _, err := o.checker.Validate(ctx, target); err != nil {
			// Hostile or dead URL: classify the raw text instead.
			o.logger.Warn("url rejected, classifying raw input",
				logger.String("url", target),
				logger.Error(err))
		} else {
			extracted = o.extractor.Extract(ctx, target)
			if composed := composeExtracted(extracted); composed != "" {
				contentToAnalyze = composed
			}
		}
	}

	classification := o.classifier.Classify(ctx, contentToAnalyze)
	result := &Suggestion{Suggestion: *classification}

	if extracted != nil {
		// The extracted title wins when the model produced nothing better.
		if extracted.Title != "" && (result.Title == "" || result.Title == "Nota") {
			result.Title = extracted.Title
		}
		if extracted.Kind != "" && extracted.Kind != domain.KindText {
			result.Type = extracted.Kind
		}
	}
	if result.Title == "" {
		result.Title = "Nota"
	}

	return result
}

// SuggestFile classifies an uploaded file from its metadata, stores the
// file, and points the suggestion at the stored media.
func (o *Orchestrator) SuggestFile(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*Suggestion, error) {
	if originalName == "" {
		originalName = "archivo"
	}
	lowerName := strings.ToLower(originalName)

	isAudio := strings.HasPrefix(contentType, "audio/") ||
		strings.HasSuffix(lowerName, ".mp3") || strings.HasSuffix(lowerName, ".wav")
	isVideo := strings.HasPrefix(contentType, "video/") ||
		strings.HasSuffix(lowerName, ".mp4") || strings.HasSuffix(lowerName, ".mov")

	description := buildFileDescription(originalName, contentType, size, isAudio, isVideo)

	o.logger.Info("classifying uploaded file metadata",
		logger.String("filename", originalName),
		logger.Int64("size", size))
	classification := o.classifier.Classify(ctx, description)

	// The suggestion type must reflect what the file actually is.
	if isAudio {
		classification.Type = domain.TypeAudio
	} else if isVideo {
		classification.Type = domain.TypeVideo
	}
	if classification.Title == "" {
		classification.Title = originalName
	}

	storedName, err := o.media.Store(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	return &Suggestion{
		Suggestion:       *classification,
		MediaURL:         "/api/brain/media/" + storedName,
		MediaContentType: contentType,
	}, nil
}

// SuggestPreview extracts a URL without classifying it, for the user to
// inspect before committing. Unlike Suggest, a bad URL is an error here.
func (o *Orchestrator) SuggestPreview(ctx context.Context, rawURL string) (*Preview, error) {
	normalized := urlcheck.Normalize(rawURL)
	if _, err := o.checker.Validate(ctx, normalized); err != nil {
		return nil, err
	}

	extracted := o.extractor.Extract(ctx, normalized)

	snippet := extracted.Content
	if runes := []rune(snippet); len(runes) > previewSnippetLen {
		snippet = string(runes[:previewSnippetLen]) + "..."
	}

	return &Preview{
		URL:         normalized,
		Type:        extracted.Kind,
		Title:       strings.TrimSpace(extracted.Title),
		Description: strings.TrimSpace(extracted.Description),
		Snippet:     snippet,
	}, nil
}

// IsURL reports whether content looks like a URL.
func IsURL(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "www.")
}

// composeExtracted merges extraction fields into labeled text for the
// classifier. The labels are the ones the heuristic classifier reads
// back out, keeping the two ends of the pipeline in agreement.
func composeExtracted(extracted *domain.ExtractedContent) string {
	var b strings.Builder
	if extracted.Title != "" {
		b.WriteString("Título: ")
		b.WriteString(extracted.Title)
		b.WriteString("\n\n")
	}
	if extracted.Description != "" {
		b.WriteString("Descripción: ")
		b.WriteString(extracted.Description)
		b.WriteString("\n\n")
	}
	if extracted.Content != "" {
		b.WriteString("Contenido: ")
		b.WriteString(extracted.Content)
	}
	return strings.TrimSpace(b.String())
}

// buildFileDescription writes the synthetic metadata text the model
// classifies in place of unreadable binary content.
func buildFileDescription(originalName, contentType string, size int64, isAudio, isVideo bool) string {
	sizeMB := float64(size) / (1024.0 * 1024.0)

	var b strings.Builder
	switch {
	case isAudio:
		b.WriteString("Archivo de audio subido por el usuario (probablemente un MP3).\n\n")
		fmt.Fprintf(&b, "Nombre de archivo: %s\n", originalName)
		fmt.Fprintf(&b, "Tamaño aproximado: %.2f MB\n\n", sizeMB)
		b.WriteString("INFORMACIÓN PARA LA IA: A partir del nombre del archivo y estos metadatos, intenta deducir artista, autor o grupo probable, ")
		b.WriteString("así como el estilo o temática del audio. Si el nombre no da pistas claras, indícalo explícitamente.\n")
	case isVideo:
		b.WriteString("Archivo de vídeo subido por el usuario (por ejemplo, MP4).\n\n")
		fmt.Fprintf(&b, "Nombre de archivo: %s\n", originalName)
		fmt.Fprintf(&b, "Tamaño aproximado: %.2f MB\n\n", sizeMB)
		b.WriteString("INFORMACIÓN PARA LA IA: No tienes acceso al contenido de vídeo, solo al nombre y metadatos básicos. ")
		b.WriteString("Intenta deducir de qué podría tratar el vídeo y genera un RESUMEN probable del tema y contexto, indicando que es una inferencia.\n")
	default:
		b.WriteString("Archivo subido por el usuario.\n\n")
		fmt.Fprintf(&b, "Nombre de archivo: %s\n", originalName)
		fmt.Fprintf(&b, "Tipo de contenido: %s\n", contentType)
		fmt.Fprintf(&b, "Tamaño aproximado: %.2f MB\n\n", sizeMB)
		b.WriteString("INFORMACIÓN PARA LA IA: A partir de estos metadatos intenta clasificar el archivo y proponer un título y resumen útiles.\n")
	}
	return b.String()
}
