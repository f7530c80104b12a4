package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier queues outbound e-mails. worker.Dispatcher is the production
// implementation; enqueue failures never fail the calling operation.
type Notifier interface {
	EnqueueEmail(ctx context.Context, payload any) error
}

type noopNotifier struct{}

// NoopNotifier discards every job. Used when Redis is unavailable.
func NoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) EnqueueEmail(context.Context, any) error { return nil }

// notify enqueues best-effort and only logs failures.
func notify(ctx context.Context, n Notifier, payload any, evento string) {
	if n == nil {
		return
	}
	if err := n.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("evento", evento).Msg("notificacion no encolada")
	}
}
