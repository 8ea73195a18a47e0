package worker

// escalation_cron.go
// Background goroutine that periodically looks for URGENT transfers stuck in
// REQUESTED and re-notifies the ops mailbox. A Redis marker key with a TTL
// prevents re-escalating the same transfer on every tick.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/infra"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
)

const (
	escalationTickInterval = 5 * time.Minute
	escalationKeyPrefix    = "escalated:transfer:"
)

// EscalationCronConfig holds all dependencies for the escalation goroutine.
type EscalationCronConfig struct {
	TransferRepo repository.TransferRepository
	Dispatcher   *Dispatcher
	CB           *infra.CircuitBreaker
	RDB          *redis.Client
	OpsEmail     string
	MaxAge       time.Duration
}

// StartEscalationCron launches a background goroutine that ticks every 5
// minutes, finds stale urgent transfers, and enqueues notification jobs.
// It respects the context for graceful shutdown.
func StartEscalationCron(ctx context.Context, cfg EscalationCronConfig) {
	go func() {
		ticker := time.NewTicker(escalationTickInterval)
		defer ticker.Stop()

		log.Info().Msg("escalation_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("escalation_cron: shutting down")
				return
			case <-ticker.C:
				processEscalations(ctx, cfg)
			}
		}
	}()
}

func processEscalations(ctx context.Context, cfg EscalationCronConfig) {
	// If the CB is open notifications cannot go out anyway — skip the tick
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("escalation_cron: circuit breaker is open, skipping tick")
		return
	}

	cutoff := time.Now().Add(-cfg.MaxAge)
	stale, err := cfg.TransferRepo.FindStale(ctx, model.PriorityUrgent, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("escalation_cron: failed to query stale transfers")
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Info().Int("count", len(stale)).Msg("escalation_cron: stale urgent transfers found")

	for i := range stale {
		t := &stale[i]

		// SetNX marker: only the first tick past the cutoff escalates; the key
		// expires after MaxAge so a still-stuck transfer escalates again later.
		key := escalationKeyPrefix + t.ID.String()
		set, err := cfg.RDB.SetNX(ctx, key, 1, cfg.MaxAge).Result()
		if err != nil {
			log.Error().Err(err).Str("transfer_id", t.ID.String()).Msg("escalation_cron: marker check failed")
			continue
		}
		if !set {
			continue // already escalated recently
		}

		age := time.Since(t.RequestedAt).Round(time.Minute)
		payload := NotificationJobPayload{
			ToEmail: cfg.OpsEmail,
			Subject: fmt.Sprintf("Urgent transfer %s awaiting approval", t.ID),
			Body: fmt.Sprintf(
				"Transfer %s (priority URGENT) has been waiting for approval for %s.\nQuantity: %d, product: %s.",
				t.ID, age, t.QuantityRequested, t.ProductID),
		}
		if err := cfg.Dispatcher.EnqueueNotification(ctx, payload); err != nil {
			log.Error().Err(err).Str("transfer_id", t.ID.String()).Msg("escalation_cron: enqueue failed")
			continue
		}

		log.Warn().
			Str("transfer_id", t.ID.String()).
			Dur("age", age).
			Msg("escalation_cron: urgent transfer escalated")
	}
}
