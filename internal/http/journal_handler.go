package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/service"
)

// JournalHandler mantiene dependencias para endpoints de entradas de diario.
type JournalHandler struct {
	logger   *zap.Logger
	journals *service.JournalService
}

func NewJournalHandler(logger *zap.Logger, journals *service.JournalService) *JournalHandler {
	return &JournalHandler{
		logger:   logger,
		journals: journals,
	}
}

type transcriptMessageRequest struct {
	Role      string `json:"role" binding:"required,oneof=user agent"`
	Text      string `json:"text" binding:"required"`
	Timestamp int64  `json:"timestamp" binding:"required"`
}

// CreateJournal maneja POST /journals. Dispara el analisis de insights y el
// update de racha del residente.
func (h *JournalHandler) CreateJournal(c *gin.Context) {
	var req struct {
		UserID         string                     `json:"userId" binding:"required"`
		ConversationID string                     `json:"conversationId"`
		Transcript     []transcriptMessageRequest `json:"transcript" binding:"required,min=1,dive"`
		DurationSecs   int                        `json:"durationSecs" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create journal request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	transcript := make([]domain.TranscriptMessage, 0, len(req.Transcript))
	for _, m := range req.Transcript {
		transcript = append(transcript, domain.TranscriptMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}

	journal, err := h.journals.Create(c.Request.Context(), service.CreateJournalInput{
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Transcript:     transcript,
		DurationSecs:   req.DurationSecs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidTranscript):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("create journal failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "failed to create journal entry")
		}
		return
	}

	respondData(c, http.StatusCreated, journal)
}

// ListJournals maneja GET /journals?userId=.
func (h *JournalHandler) ListJournals(c *gin.Context) {
	journals, err := h.journals.List(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.logger.Error("list journals failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch journals")
		return
	}
	respondData(c, http.StatusOK, journals)
}

// GetJournal maneja GET /journals/:id.
func (h *JournalHandler) GetJournal(c *gin.Context) {
	journal, err := h.journals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrJournalNotFound) {
			respondError(c, http.StatusNotFound, "journal entry not found")
			return
		}
		h.logger.Error("get journal failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch journal entry")
		return
	}
	respondData(c, http.StatusOK, journal)
}
