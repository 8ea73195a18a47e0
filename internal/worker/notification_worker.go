package worker

// notification_worker.go
// Sends transfer notification emails through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/infra"
)

// NotificationJobPayload is the job envelope sent to QueueNotification.
type NotificationJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationWorker delivers notification emails. All sends pass through the
// circuit breaker so a downed SMTP relay fast-fails instead of stalling the
// pool.
type NotificationWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb}
}

func (w *NotificationWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notification_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notification_worker: empty to_email — skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		return fmt.Errorf("notification_worker: send to %s: %w", payload.ToEmail, err)
	}

	log.Info().Str("to", payload.ToEmail).Msg("notification_worker: email sent")
	return nil
}
