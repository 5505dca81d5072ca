// Package classifier turns raw content into note suggestions. It asks a
// remote language model when credentials are configured and degrades to
// a heuristic analysis otherwise; Classify always returns a usable
// suggestion, never an error.
package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonesrussell/gobrain/internal/aiclient"
	"github.com/jonesrussell/gobrain/internal/domain"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
)

const minDetailedLen = 200

// Classification outcomes recorded in metrics.
const (
	outcomeRemote   = "remote"
	outcomeFallback = "fallback"
	outcomeDefault  = "default"
)

// AIClient is the remote model the classifier consults.
type AIClient interface {
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier produces note suggestions for arbitrary content.
type Classifier struct {
	ai      AIClient
	topics  *TopicMatcher
	logger  logger.Logger
	metrics *metrics.Metrics
}

// New creates a Classifier. metrics may be nil.
func New(ai AIClient, log logger.Logger, m *metrics.Metrics) *Classifier {
	return &Classifier{
		ai:      ai,
		topics:  NewTopicMatcher(),
		logger:  log,
		metrics: m,
	}
}

// Classify analyzes content and returns a suggestion. It is total: any
// input, including blank content and remote failures, yields a fully
// populated result.
func (c *Classifier) Classify(ctx context.Context, content string) *domain.Suggestion {
	if strings.TrimSpace(content) == "" {
		c.metrics.RecordClassification(outcomeDefault)
		return defaultResult()
	}

	c.logger.Info("classifying content", logger.Int("length", len(content)))

	if !c.ai.Configured() {
		c.logger.Warn("ai credentials not configured, using heuristic classification")
		c.metrics.RecordClassification(outcomeFallback)
		return c.heuristicResult(content)
	}

	reply, err := c.ai.Complete(ctx, buildPrompt(content))
	if err != nil {
		c.logger.Error("ai classification failed, using heuristic", logger.Error(err))
		c.metrics.RecordClassification(outcomeFallback)
		return c.heuristicResult(content)
	}
	if strings.TrimSpace(reply) == "" {
		c.logger.Warn("empty ai reply, using heuristic")
		c.metrics.RecordClassification(outcomeFallback)
		return c.heuristicResult(content)
	}

	result, ok := c.parseReply(reply, content)
	if !ok {
		c.metrics.RecordClassification(outcomeFallback)
		return c.heuristicResult(content)
	}

	c.logger.Info("classification complete",
		logger.String("title", result.Title),
		logger.Int("tags", len(result.Tags)))
	c.metrics.RecordClassification(outcomeRemote)
	return result
}

// modelReply is the JSON shape the model is asked to return.
type modelReply struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	DetailedContent string   `json:"detailedContent"`
	Destination     string   `json:"destination"`
	Tags            []string `json:"tags"`
}

// parseReply decodes the model reply and fills any gaps so the result is
// always complete. Returns false when no JSON can be recovered.
func (c *Classifier) parseReply(reply, content string) (*domain.Suggestion, bool) {
	jsonStr := aiclient.ExtractJSON(reply)
	if jsonStr == "" {
		c.logger.Warn("no json object in ai reply")
		return nil, false
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		c.logger.Warn("malformed json in ai reply", logger.Error(err))
		return nil, false
	}

	result := &domain.Suggestion{
		Type:            parsed.Type,
		Title:           parsed.Title,
		Summary:         parsed.Summary,
		DetailedContent: parsed.DetailedContent,
		Destination:     parsed.Destination,
	}
	if result.Type == "" {
		result.Type = domain.TypeNota
	}
	if result.Title == "" {
		result.Title = "Nota"
	}
	if result.Destination == "" {
		result.Destination = domain.DestApunte
	}

	// A reply that only echoes the defaults carries no signal. Check
	// before gap filling, which would mask the emptiness.
	if result.Title == "Nota" && parsed.Summary == "" &&
		strings.Contains(parsed.DetailedContent, "Contenido sin procesar") {
		c.logger.Warn("ai reply looks like a default, using heuristic")
		return nil, false
	}

	for _, tag := range parsed.Tags {
		if isGenericTag(tag) {
			continue
		}
		result.Tags = append(result.Tags, tag)
	}
	if len(result.Tags) == 0 {
		result.Tags = c.topics.Tags(content, result.Title, result.Summary)
	}

	if len([]rune(result.DetailedContent)) < minDetailedLen {
		result.DetailedContent = buildDetailedBody(result.Title, result.Summary, content)
	}
	if result.Summary == "" && content != "" {
		result.Summary = truncateRunes(content, 500) + "..."
	}

	return result, true
}

// isGenericTag reports whether a tag is too generic to keep.
func isGenericTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "general", "varios", "otros", "":
		return true
	}
	return false
}
