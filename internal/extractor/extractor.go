// Package extractor turns URLs into text for classification. Extraction
// never fails outward: any error degrades to a result that still
// carries the URL, so ingestion always has something to classify.
package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/gobrain/internal/domain"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
)

const (
	mainContentSelector = "main, article, [role=main], .content, .post, .entry-content"
	mainExcludeSelector = "script, style, nav, header, footer, aside, .advertisement, .ad"
	bodyExcludeSelector = "script, style, nav, header, footer, aside"
)

// pageFetcher is the fetch dependency, satisfied by *Fetcher.
type pageFetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// Extractor extracts titles, descriptions and body text from URLs.
type Extractor struct {
	fetcher    pageFetcher
	maxContent int
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// New creates an Extractor. metrics may be nil.
func New(fetcher pageFetcher, maxContent int, log logger.Logger, m *metrics.Metrics) *Extractor {
	return &Extractor{
		fetcher:    fetcher,
		maxContent: maxContent,
		logger:     log,
		metrics:    m,
	}
}

// DetectKind classifies a URL as video, link or plain text.
func DetectKind(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"),
		strings.Contains(lower, "vimeo.com"), strings.Contains(lower, "tiktok.com"):
		return domain.KindVideo
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return domain.KindLink
	default:
		return domain.KindText
	}
}

// Extract pulls content from a URL. It always returns a usable result.
func (e *Extractor) Extract(ctx context.Context, rawURL string) *domain.ExtractedContent {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return &domain.ExtractedContent{Kind: domain.KindText}
	}

	kind := DetectKind(rawURL)
	switch kind {
	case domain.KindVideo:
		return e.extractVideo(ctx, rawURL)
	case domain.KindLink:
		return e.extractPage(ctx, rawURL)
	default:
		return &domain.ExtractedContent{Title: rawURL, Content: rawURL, Kind: domain.KindText}
	}
}

// degraded builds the fallback result when extraction fails.
func (e *Extractor) degraded(rawURL, kind string, err error) *domain.ExtractedContent {
	e.logger.Error("content extraction failed",
		logger.String("url", rawURL),
		logger.Error(err))
	e.metrics.RecordExtraction("degraded")
	return &domain.ExtractedContent{
		Title:   rawURL,
		Content: "Error al extraer contenido: " + err.Error(),
		Kind:    kind,
	}
}

func (e *Extractor) extractPage(ctx context.Context, rawURL string) *domain.ExtractedContent {
	body, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return e.degraded(rawURL, domain.KindLink, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return e.degraded(rawURL, domain.KindLink, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	description := metaContent(doc, "meta[name=description]")
	if description == "" {
		description = metaContent(doc, "meta[property='og:description']")
	}

	var content string
	if main := doc.Find(mainContentSelector).First(); main.Length() > 0 {
		main.Find(mainExcludeSelector).Remove()
		content = main.Text()
	} else if pageBody := doc.Find("body"); pageBody.Length() > 0 {
		pageBody.Find(bodyExcludeSelector).Remove()
		content = pageBody.Text()
	}
	content = normalizeWhitespace(content)

	// Selector extraction came up empty, let readability have a go.
	if content == "" {
		if rTitle, rText := applyReadability(body, rawURL); rText != "" {
			content = normalizeWhitespace(rText)
			if title == "" {
				title = rTitle
			}
		}
	}

	content = e.capContent(content)
	if title == "" {
		title = rawURL
	}

	e.logger.Info("page extracted",
		logger.String("url", rawURL),
		logger.String("title", title),
		logger.Int("content_length", len(content)))
	e.metrics.RecordExtraction("ok")

	return &domain.ExtractedContent{
		Title:       title,
		Description: description,
		Content:     content,
		Kind:        domain.KindLink,
	}
}

func (e *Extractor) extractVideo(ctx context.Context, rawURL string) *domain.ExtractedContent {
	lower := strings.ToLower(rawURL)
	isYouTube := strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")

	body, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.metrics.RecordExtraction("degraded")
		e.logger.Error("video extraction failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return &domain.ExtractedContent{
			Title:   "Video",
			Content: "VIDEO\nURL: " + rawURL + "\n\nError al extraer información completa: " + err.Error(),
			Kind:    domain.KindVideo,
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.metrics.RecordExtraction("degraded")
		return &domain.ExtractedContent{
			Title:   "Video",
			Content: "VIDEO\nURL: " + rawURL + "\n\nError al extraer información completa: " + err.Error(),
			Kind:    domain.KindVideo,
		}
	}

	var result *domain.ExtractedContent
	if isYouTube {
		result = extractYouTube(doc, rawURL)
	} else {
		result = extractGenericVideo(doc, rawURL)
	}

	e.logger.Info("video extracted",
		logger.String("url", rawURL),
		logger.String("title", result.Title))
	e.metrics.RecordExtraction("ok")
	return result
}

// extractYouTube builds a structured description block from a YouTube
// page. The uppercase labels are what the classification prompt keys on.
func extractYouTube(doc *goquery.Document, rawURL string) *domain.ExtractedContent {
	title := metaContent(doc, "meta[property='og:title']")
	if title == "" {
		title = strings.TrimSpace(strings.ReplaceAll(doc.Find("title").First().Text(), " - YouTube", ""))
	}

	description := metaContent(doc, "meta[property='og:description']")
	if description == "" {
		description = metaContent(doc, "meta[name=description]")
	}

	channel := attrContent(doc, "link[itemprop=name]", "content")
	if channel == "" {
		channel = strings.TrimSpace(doc.Find("a[href*='/channel/'], a[href*='/user/'], a[href*='/c/']").First().Text())
	}

	var b strings.Builder
	b.WriteString("VIDEO DE YOUTUBE\n")
	b.WriteString("==================\n\n")
	if title != "" {
		b.WriteString("TÍTULO DEL VIDEO: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	if channel != "" {
		b.WriteString("CANAL: ")
		b.WriteString(channel)
		b.WriteString("\n\n")
	}
	if description != "" {
		b.WriteString("DESCRIPCIÓN DEL VIDEO:\n")
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	b.WriteString("URL: ")
	b.WriteString(rawURL)
	b.WriteString("\n")

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "VideoObject") {
			b.WriteString("\n[Información estructurada del video disponible]")
			return false
		}
		return true
	})

	if title == "" {
		title = "Video de YouTube"
	}

	return &domain.ExtractedContent{
		Title:       title,
		Description: description,
		Content:     b.String(),
		Kind:        domain.KindVideo,
	}
}

func extractGenericVideo(doc *goquery.Document, rawURL string) *domain.ExtractedContent {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	description := metaContent(doc, "meta[property='og:description']")

	content := "VIDEO\n" +
		"TÍTULO: " + title + "\n\n" +
		"DESCRIPCIÓN: " + description + "\n\n" +
		"URL: " + rawURL

	if title == "" {
		title = "Video"
	}

	return &domain.ExtractedContent{
		Title:       title,
		Description: description,
		Content:     content,
		Kind:        domain.KindVideo,
	}
}

func (e *Extractor) capContent(content string) string {
	runes := []rune(content)
	if len(runes) > e.maxContent {
		return string(runes[:e.maxContent]) + "..."
	}
	return content
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func attrContent(doc *goquery.Document, selector, attr string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr(attr, ""))
}

// normalizeWhitespace collapses runs of whitespace into single spaces,
// matching how rendered text reads.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
