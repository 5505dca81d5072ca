package classifier

import (
	"strings"

	"github.com/jonesrussell/gobrain/internal/domain"
)

const (
	maxTitleLen      = 120
	maxSummaryLen    = 800
	minSummaryLen    = 50
	detailPreviewLen = 2000
)

// heuristicResult builds a full suggestion from the content alone. Used
// whenever the remote model is unavailable or returns garbage; it must
// produce something usable for any input.
func (c *Classifier) heuristicResult(content string) *domain.Suggestion {
	title := extractTitle(content)
	summary := extractSummary(content)
	return &domain.Suggestion{
		Type:            detectType(content),
		Title:           title,
		Summary:         summary,
		DetailedContent: buildDetailedBody(title, summary, content),
		Destination:     domain.DestApunte,
		Tags:            c.topics.Tags(content, title, summary),
	}
}

// defaultResult is the answer for blank input.
func defaultResult() *domain.Suggestion {
	return &domain.Suggestion{
		Type:            domain.TypeNota,
		Title:           "Nota",
		Summary:         "",
		DetailedContent: "# Nota\n\n## Contenido\n\nContenido sin procesar.",
		Destination:     domain.DestApunte,
		Tags:            []string{"general"},
	}
}

// extractTitle derives a title from the content. Prefers an explicit
// "Título:" label, then the URL host for bare links, then the first
// reasonably sized line.
func extractTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "Nota"
	}

	if idx := strings.Index(content, "Título:"); idx != -1 {
		rest := content[idx+len("Título:"):]
		line := rest
		if nl := strings.Index(rest, "\n"); nl != -1 {
			line = rest[:nl]
		} else if len([]rune(line)) > maxTitleLen {
			line = truncateRunes(line, maxTitleLen)
		}
		title := strings.TrimSpace(line)
		if title != "" && len([]rune(title)) <= maxTitleLen {
			return title
		}
	}

	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		parts := strings.Split(content, "/")
		if len(parts) > 2 && parts[2] != "" {
			return "Enlace: " + parts[2]
		}
		return "Enlace"
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		n := len([]rune(line))
		if n > 10 && n <= maxTitleLen {
			return line
		}
	}

	firstLine := strings.Split(trimmed, "\n")[0]
	if len([]rune(firstLine)) > maxTitleLen {
		return truncateRunes(firstLine, maxTitleLen-3) + "..."
	}
	if firstLine == "" {
		return "Nota"
	}
	return firstLine
}

// extractSummary derives a summary. Prefers explicit description labels,
// then accumulates body lines, then falls back to a raw prefix.
func extractSummary(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	for _, keyword := range []string{"Descripción:", "Resumen:", "Summary:"} {
		idx := strings.Index(content, keyword)
		if idx == -1 {
			continue
		}
		rest := content[idx+len(keyword):]
		section := rest
		if end := strings.Index(rest, "\n\n"); end != -1 {
			section = rest[:end]
		} else {
			section = truncateRunes(section, maxSummaryLen)
		}
		summary := strings.TrimSpace(section)
		if len([]rune(summary)) >= minSummaryLen {
			return summary
		}
	}

	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Título:") || strings.HasPrefix(line, "URL:") {
			continue
		}
		if b.Len()+len(line) > maxSummaryLen {
			break
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(line)
		if b.Len() >= 200 {
			break
		}
	}

	result := strings.TrimSpace(b.String())
	if len([]rune(result)) < minSummaryLen {
		result = strings.TrimSpace(truncateRunes(content, 500))
	}
	return result
}

// detectType guesses the content type from surface features.
func detectType(content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "video"), strings.Contains(lower, "youtube"), strings.Contains(lower, "vimeo"):
		return domain.TypeVideo
	case strings.HasPrefix(content, "http://"), strings.HasPrefix(content, "https://"), strings.HasPrefix(content, "www."):
		return domain.TypeLink
	case strings.Contains(lower, "```"), strings.Contains(lower, "function"), strings.Contains(lower, "class "):
		return domain.TypeCodigo
	case strings.Contains(lower, "tutorial"), strings.Contains(lower, "guía"), strings.Contains(lower, "paso a paso"):
		return domain.TypeTutorial
	default:
		return domain.TypeArticulo
	}
}

// buildDetailedBody assembles a markdown document when the model did not
// produce one.
func buildDetailedBody(title, summary, content string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if summary != "" {
		b.WriteString("## Resumen\n\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	b.WriteString("## Contenido original\n\n")
	b.WriteString(truncateRunes(content, detailPreviewLen))
	if len([]rune(content)) > detailPreviewLen {
		b.WriteString("\n\n... (contenido truncado)")
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
