package faq

import "strings"

// Fallback is returned whenever no knowledge entry scores above threshold.
const Fallback = "I'm not sure about that one. Please reach out to our team at the contact section and we'll get back to you quickly!"

// Entry maps trigger phrases to one canned response.
type Entry struct {
	ID       string
	Triggers []string
	Response string
}

// Matcher selects the best canned response for free-text input. Pure and
// synchronous; safe for concurrent use.
type Matcher struct {
	entries []Entry
}

// NewMatcher builds a matcher over the provided knowledge base.
func NewMatcher(entries []Entry) *Matcher {
	return &Matcher{entries: append([]Entry(nil), entries...)}
}

// Reply returns exactly one response for the input, never failing. Entries
// are scored by trigger containment; ties go to the first-registered entry.
func (m *Matcher) Reply(input string) string {
	normalized := strings.TrimSpace(strings.ToLower(input))
	if normalized == "" {
		return Fallback
	}

	bestScore := 0
	bestResponse := Fallback
	for _, entry := range m.entries {
		score := scoreEntry(normalized, entry)
		if score > bestScore {
			bestScore = score
			bestResponse = entry.Response
		}
	}

	return bestResponse
}

func scoreEntry(normalized string, entry Entry) int {
	score := 0
	for _, trigger := range entry.Triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(trigger)) {
			score += 3
		}
	}
	return score
}
