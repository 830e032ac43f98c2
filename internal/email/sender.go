package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para avisar al personal de la casa sobre
// un residente con nivel de preocupacion alto.
type Sender interface {
	SendConcernAlert(ctx context.Context, toEmail, residentName, level, summary string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendConcernAlert(_ context.Context, _, _, _, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
