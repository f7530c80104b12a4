package worker

// email_worker.go
// Sends the notification e-mails queued by review and close operations.
// Every send goes through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"machineshop/internal/infra"

	"github.com/rs/zerolog/log"
)

// Notification events carried in EmailJobPayload.Evento.
const (
	EventoRevision = "revision"
	EventoCierre   = "cierre"
)

// EmailJobPayload is the payload of a JobEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Evento  string `json:"evento,omitempty"`
}

// Sender delivers one e-mail. *infra.Mailer satisfies it.
type Sender interface {
	SendNotificacion(to, subject, body string) error
}

type EmailWorker struct {
	sender Sender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb}
}

// Process is a Handler for JobEmail.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if strings.TrimSpace(payload.ToEmail) == "" {
		log.Warn().Str("evento", payload.Evento).Msg("email_worker: empty to_email, skipping")
		return nil
	}

	omitido := false
	send := func() error {
		err := w.sender.SendNotificacion(payload.ToEmail, payload.Subject, payload.Body)
		if errors.Is(err, infra.ErrMailerNoConfigurado) {
			omitido = true
			return nil
		}
		return err
	}
	var err error
	if w.cb != nil {
		err = w.cb.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		return err
	}
	if omitido {
		log.Debug().Str("to", payload.ToEmail).Str("evento", payload.Evento).Msg("email_worker: smtp disabled, dropping")
		return nil
	}
	log.Info().Str("to", payload.ToEmail).Str("evento", payload.Evento).Msg("email_worker: notification sent")
	return nil
}
