package service

import (
	"strconv"
	"strings"

	"meritmind/internal/domain"
)

// normalizeInsights convierte el JSON crudo (no confiable) del modelo en un
// Insights valido. Cada campo presente y del tipo esperado se usa, coercionando
// numeros en string; todo lo demas cae a su default. El pase es idempotente:
// aplicarlo sobre un Insights ya valido devuelve el mismo registro.
func normalizeInsights(raw map[string]any) domain.Insights {
	mood, _ := raw["mood"].(map[string]any)
	quality, _ := raw["conversation_quality"].(map[string]any)

	out := domain.Insights{
		Mood: domain.Mood{
			Score:       clampInt(toInt(mood["score"], 5), 1, 10),
			Label:       toString(mood["label"], "okay"),
			Description: toString(mood["description"], "Reflected on the day."),
		},
		Summary:         toString(raw["summary"], "Had a day worth reflecting on."),
		Themes:          toStringSlice(raw["themes"], []string{"daily reflection"}),
		Wins:            toStringSlice(raw["wins"], []string{}),
		Struggles:       toStringSlice(raw["struggles"], []string{}),
		PeopleMentioned: toStringSlice(raw["people_mentioned"], []string{}),
		ConcernLevel:    toString(raw["concern_level"], domain.ConcernNone),
		ConversationQuality: domain.ConversationQuality{
			Openness:     clampInt(toInt(quality["openness"], 3), 1, 5),
			DurationFeel: toString(quality["duration_feel"], "moderate"),
			Engagement:   toString(quality["engagement"], "moderate"),
		},
	}

	if lf := toString(raw["looking_forward_to"], ""); lf != "" {
		out.LookingForwardTo = &lf
	}

	// Enums fuera de su conjunto se reemplazan por el default, nunca se rechazan.
	if !domain.ValidMoodLabel(out.Mood.Label) {
		out.Mood.Label = "okay"
	}
	if !domain.ValidConcernLevel(out.ConcernLevel) {
		out.ConcernLevel = domain.ConcernNone
	}
	if !domain.ValidDurationFeel(out.ConversationQuality.DurationFeel) {
		out.ConversationQuality.DurationFeel = "moderate"
	}
	if !domain.ValidEngagement(out.ConversationQuality.Engagement) {
		out.ConversationQuality.Engagement = "moderate"
	}

	return out
}

// fallbackInsights es el registro neutro que garantiza que guardar el diario
// nunca falle aunque el analisis completo no este disponible.
func fallbackInsights() domain.Insights {
	return domain.Insights{
		Mood: domain.Mood{
			Score:       5,
			Label:       "okay",
			Description: "Had a steady day with a mix of moments.",
		},
		Summary:         "I had an alright day today. Kept myself busy and tried to stay positive. Looking forward to tomorrow.",
		Themes:          []string{"daily routine", "steady progress"},
		Wins:            []string{"Got through the day", "Stayed positive"},
		Struggles:       []string{},
		PeopleMentioned: []string{},
		ConcernLevel:    domain.ConcernNone,
		ConversationQuality: domain.ConversationQuality{
			Openness:     3,
			DurationFeel: "moderate",
			Engagement:   "moderate",
		},
	}
}

func toInt(val any, fallback int) int {
	switch v := val.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func toString(val any, fallback string) string {
	if s, ok := val.(string); ok && s != "" {
		return s
	}
	return fallback
}

func toStringSlice(val any, fallback []string) []string {
	items, ok := val.([]any)
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
