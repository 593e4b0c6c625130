package analysis

import (
	"errors"
	"strings"
)

// ExtractJSON pulls a JSON object out of model output that may wrap it in
// prose or markdown code fencing. Returns an error when no candidate object
// is found; actually parsing it is the caller's problem.
func ExtractJSON(text string) (string, error) {
	t := strings.TrimSpace(text)

	// Prefer an explicit ```json fence, then any fence.
	for _, marker := range []string{"```json", "```"} {
		if i := strings.Index(t, marker); i >= 0 {
			rest := t[i+len(marker):]
			if j := strings.Index(rest, "```"); j >= 0 {
				t = strings.TrimSpace(rest[:j])
				break
			}
		}
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object found in response")
	}
	return t[start : end+1], nil
}
