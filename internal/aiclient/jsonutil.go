package aiclient

import "strings"

// ExtractJSON pulls a JSON object out of an LLM reply. Models often wrap
// the object in markdown fences or surrounding prose; this strips fences
// and slices from the first '{' to the last '}'.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)

	if start := strings.Index(s, "```json"); start != -1 {
		s = s[start+len("```json"):]
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	} else if start := strings.Index(s, "```"); start != -1 {
		s = s[start+len("```"):]
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return strings.TrimSpace(s[first : last+1])
}
