package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meritmind/internal/service"
)

// VoiceHandler expone la credencial de corta vida para el transporte de voz.
type VoiceHandler struct {
	logger *zap.Logger
	voice  *service.VoiceService
}

func NewVoiceHandler(logger *zap.Logger, voice *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{
		logger: logger,
		voice:  voice,
	}
}

// GetSignedURL maneja GET /signed-url.
func (h *VoiceHandler) GetSignedURL(c *gin.Context) {
	signedURL, err := h.voice.SignedURL(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrVoiceNotConfigured) {
			respondError(c, http.StatusInternalServerError, "voice transport not configured")
			return
		}
		h.logger.Error("get signed url failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to get signed url")
		return
	}
	respondData(c, http.StatusOK, gin.H{"signedUrl": signedURL})
}
