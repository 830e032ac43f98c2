package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/llm"
)

const analysisTimeout = 30 * time.Second

const analysisSystemPrompt = `You are an AI that analyzes journal conversations from residents in a supportive living environment. Given a voice conversation transcript between a resident and their journaling companion, extract structured insights.

Be sensitive. These are real people sharing real feelings. Your analysis should be compassionate and strengths-focused — lead with what's going well.

Analyze the transcript and return ONLY valid JSON with no markdown wrapping, no code fences, just raw JSON:

{
  "mood": {
    "score": <1-10 integer, 1=very low, 10=excellent>,
    "label": <"struggling"|"low"|"mixed"|"okay"|"good"|"great"|"excellent">,
    "description": <one sentence describing their emotional state>
  },
  "summary": <2-3 sentence natural language summary of their day, written as a journal entry in first person — "I had a..." — as if the resident wrote it themselves>,
  "themes": [<array of 1-4 emotional/topical themes, e.g. "loneliness", "job progress", "family connection", "anxiety about future", "pride in achievement">],
  "wins": [<array of positive things mentioned, even small ones>],
  "struggles": [<array of challenges or difficult feelings mentioned>],
  "people_mentioned": [<names or relationships mentioned: "Marcus", "my daughter", "key worker">],
  "looking_forward_to": <anything they mentioned about tomorrow/future, or null>,
  "concern_level": <"none"|"mild"|"moderate"|"high" — flag if resident seems significantly distressed>,
  "conversation_quality": {
    "openness": <1-5, how freely they shared>,
    "duration_feel": <"brief"|"moderate"|"extended">,
    "engagement": <"minimal"|"moderate"|"high">
  }
}`

// InsightService convierte transcripts en Insights validados usando el LLM.
// Contrato: Analyze nunca falla; cualquier problema upstream (sin credencial,
// error de red, timeout, JSON invalido) degrada al registro neutro de fallback.
type InsightService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

// NewInsightService construye el servicio. llmClient nil significa que no hay
// credencial configurada y todo analisis va directo al fallback.
func NewInsightService(llmClient llm.LLMClient, logger *zap.Logger) *InsightService {
	return &InsightService{
		llmClient: llmClient,
		logger:    logger,
	}
}

// Analyze produce un Insights que siempre cumple los invariantes del dominio.
func (s *InsightService) Analyze(ctx context.Context, transcript []domain.TranscriptMessage) domain.Insights {
	if s.llmClient == nil {
		s.logger.Warn("llm not configured, using fallback insights")
		return fallbackInsights()
	}

	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	userPrompt := "Transcript:\n" + FormatTranscript(transcript)
	raw, err := s.llmClient.Generate(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("llm analysis failed, using fallback insights", zap.Error(err))
		return fallbackInsights()
	}

	cleaned := extractInsightsJSON(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.logger.Warn("llm analysis returned unparseable JSON, using fallback insights",
			zap.Error(err),
			zap.String("raw_prefix", prefix(raw, 300)),
		)
		return fallbackInsights()
	}

	// La salida del modelo no es un contrato tipado: pasa siempre por el
	// pase de validacion y defaults aunque haya parseado bien.
	return normalizeInsights(parsed)
}

// FormatTranscript aplana el transcript a una linea por mensaje con el rol fijo.
func FormatTranscript(messages []domain.TranscriptMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		label := "MeritMind"
		if m.Role == domain.RoleResident {
			label = "Resident"
		}
		lines = append(lines, label+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
