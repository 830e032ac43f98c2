package domain

import "time"

// Roles de los mensajes del transcript.
const (
	RoleResident  = "user"
	RoleCompanion = "agent"
)

// TranscriptMessage es una linea del transcript de la sesion de voz.
// Timestamp viene en epoch millis desde el transporte de voz.
type TranscriptMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Journal es una entrada de diario: el transcript de una sesion mas sus insights.
// Date es un dia calendario YYYY-MM-DD, no un timestamp. Inmutable despues de creada.
type Journal struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	UserName       string              `json:"userName"`
	Date           string              `json:"date"`
	ConversationID string              `json:"conversationId"`
	DurationSecs   int                 `json:"durationSecs"`
	Transcript     []TranscriptMessage `json:"transcript"`
	Insights       Insights            `json:"insights"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// DateOf formatea un instante como dia calendario YYYY-MM-DD en UTC.
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
