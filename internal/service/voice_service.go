package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrVoiceNotConfigured indica que faltan credenciales del transporte de voz.
var ErrVoiceNotConfigured = errors.New("voice transport not configured")

// VoiceService obtiene signed URLs de corta vida para que el cliente abra la
// sesion de voz con ElevenLabs.
type VoiceService struct {
	baseURL string
	agentID string
	apiKey  string
	client  *http.Client
}

func NewVoiceService(agentID, apiKey string) *VoiceService {
	return &VoiceService{
		baseURL: "https://api.elevenlabs.io",
		agentID: agentID,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL apunta el servicio a otro host; solo para tests.
func (s *VoiceService) WithBaseURL(baseURL string) *VoiceService {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// SignedURL pide una signed URL nueva para el agente configurado.
func (s *VoiceService) SignedURL(ctx context.Context) (string, error) {
	if s.agentID == "" || s.apiKey == "" {
		return "", ErrVoiceNotConfigured
	}

	endpoint := s.baseURL + "/v1/convai/conversation/get-signed-url?agent_id=" + url.QueryEscape(s.agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("elevenlabs http error: status=%d", resp.StatusCode)
	}

	var parsed struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.SignedURL == "" {
		return "", fmt.Errorf("elevenlabs empty signed url")
	}
	return parsed.SignedURL, nil
}
