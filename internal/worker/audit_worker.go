package worker

// audit_worker.go
// Persists transfer audit entries produced by the state machine. Transitions
// enqueue their audit metadata so the request path never blocks on the
// audit table.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
)

// AuditWorker writes audit rows for transfer state transitions.
type AuditWorker struct {
	repo repository.TransferAuditRepository
}

func NewAuditWorker(repo repository.TransferAuditRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

// Process persists one audit entry. The payload is the engine's AuditEntry,
// marshalled as-is by the dispatcher.
func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var entry engine.AuditEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("audit_worker: invalid payload: %w", err)
	}

	audit := &model.TransferAudit{
		TenantID:   entry.TenantID,
		TransferID: entry.TransferID,
		ActorID:    entry.ActorID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		OccurredAt: entry.OccurredAt,
	}
	if entry.Reason != "" {
		reason := entry.Reason
		audit.Reason = &reason
	}
	if entry.IPAddress != "" {
		ip := entry.IPAddress
		audit.IPAddress = &ip
	}
	if entry.UserAgent != "" {
		ua := entry.UserAgent
		audit.UserAgent = &ua
	}

	if err := w.repo.Create(ctx, audit); err != nil {
		return fmt.Errorf("audit_worker: persist: %w", err)
	}

	log.Info().
		Str("transfer_id", entry.TransferID.String()).
		Str("from", string(entry.FromStatus)).
		Str("to", string(entry.ToStatus)).
		Msg("audit_worker: transition recorded")
	return nil
}
