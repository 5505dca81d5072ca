package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

const maxTags = 6

// topicRule maps a set of keywords to the tags emitted when any of them
// appears in the text. Subrules refine a matched topic: they only fire
// when the parent rule matched too.
type topicRule struct {
	tags     []string
	keywords []string
	subrules []topicRule
}

// topicRules is the built-in topic dictionary. Matching is substring
// based over lowercased text, so short keywords intentionally catch
// derived forms ("liga" in "ligas").
var topicRules = []topicRule{
	{
		tags:     []string{"deportes"},
		keywords: []string{"futbol", "fútbol", "deporte", "liga", "equipo"},
		subrules: []topicRule{
			{tags: []string{"futbol-espanol"}, keywords: []string{"español", "españa"}},
		},
	},
	{
		tags:     []string{"sanidad"},
		keywords: []string{"sanidad", "salud", "medicina", "mir", "hospital"},
		subrules: []topicRule{
			{tags: []string{"sanidad-publica"}, keywords: []string{"publica", "pública"}},
		},
	},
	{
		tags:     []string{"historia", "politica"},
		keywords: []string{"historia", "histórico", "rey", "23f", "desclasificacion"},
	},
	{
		tags:     []string{"tecnologia"},
		keywords: []string{"tecnologia", "tecnología", "programacion", "software", "aplicacion"},
	},
	{
		tags:     []string{"sociedad"},
		keywords: []string{"sociedad", "noticia", "actualidad"},
	},
	{
		tags:     []string{"video"},
		keywords: []string{"video", "youtube", "vimeo"},
	},
	{
		tags:     []string{"articulo"},
		keywords: []string{"articulo", "artículo", "noticia", "cadena ser", "el país"},
	},
}

// titleStopwords are common words never emitted as title-derived tags.
var titleStopwords = map[string]bool{
	"sobre": true, "cuando": true, "desde": true,
	"hasta": true, "después": true, "nota": true,
}

// TopicMatcher generates tags from free text using an Aho-Corasick
// automaton over the topic dictionary.
type TopicMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewTopicMatcher builds the automaton from the built-in dictionary.
func NewTopicMatcher() *TopicMatcher {
	var keywords []string
	var collect func(rules []topicRule)
	collect = func(rules []topicRule) {
		for _, r := range rules {
			keywords = append(keywords, r.keywords...)
			collect(r.subrules)
		}
	}
	collect(topicRules)

	return &TopicMatcher{
		matcher:  ahocorasick.NewStringMatcher(keywords),
		keywords: keywords,
	}
}

// Tags derives tags from content, title and summary. It never returns
// an empty slice: when nothing matches it falls back to a single
// generic tag.
func (m *TopicMatcher) Tags(content, title, summary string) []string {
	allText := strings.ToLower(title + " " + summary + " " + content)

	matched := make(map[string]bool)
	for _, hit := range m.matcher.Match([]byte(allText)) {
		if hit < len(m.keywords) {
			matched[m.keywords[hit]] = true
		}
	}

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	// Emit in dictionary order for stable output.
	for _, rule := range topicRules {
		if !anyMatched(rule.keywords, matched) {
			continue
		}
		for _, t := range rule.tags {
			add(t)
		}
		for _, sub := range rule.subrules {
			if anyMatched(sub.keywords, matched) {
				for _, t := range sub.tags {
					add(t)
				}
			}
		}
	}

	// Keywords from the title fill the remaining slots.
	for _, word := range titleKeywords(title) {
		if len(tags) >= maxTags {
			break
		}
		add(word)
	}

	if len(tags) == 0 {
		tags = append(tags, "contenido")
	}
	return tags
}

func anyMatched(keywords []string, matched map[string]bool) bool {
	for _, kw := range keywords {
		if matched[kw] {
			return true
		}
	}
	return false
}

// titleKeywords extracts candidate tag words from a title: letters only,
// longer than four runes, stopwords removed.
func titleKeywords(title string) []string {
	if title == "" {
		return nil
	}

	var words []string
	for _, raw := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '|'
	}) {
		word := stripNonLetters(raw)
		if len([]rune(word)) > 4 && !titleStopwords[word] {
			words = append(words, word)
		}
	}
	return words
}

func stripNonLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || strings.ContainsRune("áéíóúñ", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
