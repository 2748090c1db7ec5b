package email

import (
	"context"
	"errors"
)

// VerificationMessage es lo necesario para componer el correo de verificacion.
type VerificationMessage struct {
	To         string
	FirstName  string
	SecondName string
	Link       string
}

// Sender define la interfaz para envio de correos de verificacion.
type Sender interface {
	SendVerificationEmail(ctx context.Context, msg VerificationMessage) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendVerificationEmail(_ context.Context, _ VerificationMessage) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
