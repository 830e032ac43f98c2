package domain

// Niveles de preocupacion sobre el estado del residente.
const (
	ConcernNone     = "none"
	ConcernMild     = "mild"
	ConcernModerate = "moderate"
	ConcernHigh     = "high"
)

// Mood resume el estado emocional inferido de la conversacion.
type Mood struct {
	Score       int    `json:"score"` // 1-10
	Label       string `json:"label"` // struggling|low|mixed|okay|good|great|excellent
	Description string `json:"description"`
}

// ConversationQuality es metadata sobre que tan fluida fue la sesion.
type ConversationQuality struct {
	Openness     int    `json:"openness"`      // 1-5
	DurationFeel string `json:"duration_feel"` // brief|moderate|extended
	Engagement   string `json:"engagement"`    // minimal|moderate|high
}

// Insights es el resultado validado de analizar un transcript.
// Invariante: toda instancia persistida tiene cada campo poblado o con su default;
// nunca hay sub-campos requeridos en null.
type Insights struct {
	Mood                Mood                `json:"mood"`
	Summary             string              `json:"summary"`
	Themes              []string            `json:"themes"`
	Wins                []string            `json:"wins"`
	Struggles           []string            `json:"struggles"`
	PeopleMentioned     []string            `json:"people_mentioned"`
	LookingForwardTo    *string             `json:"looking_forward_to"`
	ConcernLevel        string              `json:"concern_level"`
	ConversationQuality ConversationQuality `json:"conversation_quality"`
}

var moodLabels = map[string]bool{
	"struggling": true,
	"low":        true,
	"mixed":      true,
	"okay":       true,
	"good":       true,
	"great":      true,
	"excellent":  true,
}

var concernLevels = map[string]bool{
	ConcernNone:     true,
	ConcernMild:     true,
	ConcernModerate: true,
	ConcernHigh:     true,
}

var durationFeels = map[string]bool{
	"brief":    true,
	"moderate": true,
	"extended": true,
}

var engagements = map[string]bool{
	"minimal":  true,
	"moderate": true,
	"high":     true,
}

// ValidMoodLabel indica si label pertenece al enum de estados de animo.
func ValidMoodLabel(label string) bool { return moodLabels[label] }

// ValidConcernLevel indica si level pertenece al enum de niveles de preocupacion.
func ValidConcernLevel(level string) bool { return concernLevels[level] }

// ValidDurationFeel indica si feel pertenece al enum de duracion percibida.
func ValidDurationFeel(feel string) bool { return durationFeels[feel] }

// ValidEngagement indica si engagement pertenece al enum de nivel de participacion.
func ValidEngagement(engagement string) bool { return engagements[engagement] }
