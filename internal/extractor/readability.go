package extractor

import (
	"bytes"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// applyReadability runs a readability extractor over the full document.
// Used only when selector-based extraction yields nothing; returns empty
// strings when readability fails or finds no content.
func applyReadability(documentHTML []byte, pageURL string) (title, text string) {
	if len(bytes.TrimSpace(documentHTML)) == 0 {
		return "", ""
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", ""
	}

	article, err := readability.FromReader(bytes.NewReader(documentHTML), parsedURL)
	if err != nil {
		return "", ""
	}

	return strings.TrimSpace(article.Title), strings.TrimSpace(article.TextContent)
}
