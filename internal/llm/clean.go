package llm

import "strings"

// fencePrefixes are checked in order; the bare fence goes last so that a
// labelled fence is consumed whole.
var fencePrefixes = []string{"```text", "```json", "```python", "```"}

// StripCodeFences removes a Markdown code fence wrapping the whole response.
// Fences in the middle of the text are left alone.
func StripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	for _, prefix := range fencePrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}
