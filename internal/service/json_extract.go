package service

import (
	"regexp"
	"strings"
)

var (
	reThinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reCodeFence  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")
)

// extractInsightsJSON recorta el JSON util de una respuesta de modelo.
// El modelo puede envolver el JSON en bloques <think>...</think>, en fences
// de markdown, o rodearlo de prosa; se intenta en ese orden.
func extractInsightsJSON(raw string) string {
	text := strings.TrimSpace(reThinkBlock.ReplaceAllString(raw, ""))
	text = strings.TrimPrefix(text, "\uFEFF")

	if m := reCodeFence.FindStringSubmatch(text); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}

	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first != -1 && last > first {
		return text[first : last+1]
	}

	return text
}
