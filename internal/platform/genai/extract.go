package genai

import (
	"regexp"
	"strings"
)

var jsonFencePattern = regexp.MustCompile("```json\n?")

// StripCodeFences removes Markdown code fences that models often wrap JSON
// payloads in. Applying it to already-clean text is a no-op, so it is safe
// to call repeatedly.
func StripCodeFences(s string) string {
	s = jsonFencePattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractJSON strips code fences and then cuts the text down to the first
// opening brace through the last closing brace, recovering an object from
// replies that surround it with prose. Text without a brace pair is returned
// fence-stripped as is. Idempotent, like StripCodeFences.
func ExtractJSON(s string) string {
	s = StripCodeFences(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
