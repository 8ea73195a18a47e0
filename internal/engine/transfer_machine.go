package engine

import (
	"time"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"

	"github.com/google/uuid"
)

// transferTransitions is the full legal transition table. REJECTED is
// reachable only from REQUESTED; REJECTED, CANCELLED, and RECEIVED are
// terminal and admit no further transitions.
var transferTransitions = map[model.TransferStatus][]model.TransferStatus{
	model.TransferRequested: {model.TransferApproved, model.TransferRejected, model.TransferCancelled},
	model.TransferApproved:  {model.TransferShipped, model.TransferCancelled},
	model.TransferShipped:   {model.TransferReceived},
	model.TransferRejected:  {},
	model.TransferCancelled: {},
	model.TransferReceived:  {},
}

// transitionVerbs name the action in validation messages
// ("Cannot cancel transfer in SHIPPED status").
var transitionVerbs = map[model.TransferStatus]string{
	model.TransferApproved:  "approve",
	model.TransferRejected:  "reject",
	model.TransferShipped:   "ship",
	model.TransferReceived:  "receive",
	model.TransferCancelled: "cancel",
}

// TransitionContext carries the actor and request metadata for one
// transition. Reason, IPAddress, and UserAgent are opaque audit payload —
// the state machine records them and nothing more.
type TransitionContext struct {
	UserID    uuid.UUID
	TenantID  uuid.UUID
	Reason    string
	IPAddress string
	UserAgent string
}

// AuditEntry is the audit metadata produced by every successful transition.
// The caller persists it (directly or through the audit worker) alongside
// the new transfer snapshot.
type AuditEntry struct {
	TransferID uuid.UUID            `json:"transfer_id"`
	TenantID   uuid.UUID            `json:"tenant_id"`
	ActorID    uuid.UUID            `json:"actor_id"`
	FromStatus model.TransferStatus `json:"from_status"`
	ToStatus   model.TransferStatus `json:"to_status"`
	Reason     string               `json:"reason,omitempty"`
	IPAddress  string               `json:"ip_address,omitempty"`
	UserAgent  string               `json:"user_agent,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// ValidTransitions returns the set of statuses legally reachable from
// current. The returned slice is a copy — mutating it cannot corrupt the
// table.
func ValidTransitions(current model.TransferStatus) []model.TransferStatus {
	targets := transferTransitions[current]
	out := make([]model.TransferStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether current → target is a legal transition.
func CanTransition(current, target model.TransferStatus) bool {
	for _, t := range transferTransitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// ExecuteTransition applies one guarded transition and returns a new
// immutable snapshot plus its audit entry. The input transfer is never
// mutated and no persistence happens here — the caller writes the snapshot
// with a status-conditioned update and retries on conflict with a fresh
// read. Preconditions, in order: tenant isolation, then legality per the
// transition table.
func ExecuteTransition(transfer model.TransferRequest, target model.TransferStatus, tctx TransitionContext) (*model.TransferRequest, *AuditEntry, error) {
	if transfer.TenantID != tctx.TenantID {
		return nil, nil, NewAuthorizationError("transfer belongs to a different tenant")
	}
	if !CanTransition(transfer.Status, target) {
		return nil, nil, NewValidationError("Cannot %s transfer in %s status", verbFor(target), transfer.Status)
	}

	now := time.Now().UTC()
	next := transfer
	next.Status = target
	actor := tctx.UserID

	switch target {
	case model.TransferApproved:
		next.ApprovedBy = &actor
		next.ApprovedAt = &now
	case model.TransferRejected:
		next.RejectedBy = &actor
		next.RejectedAt = &now
		if tctx.Reason != "" {
			reason := tctx.Reason
			next.RejectionReason = &reason
		}
	case model.TransferShipped:
		next.ShippedBy = &actor
		next.ShippedAt = &now
	case model.TransferReceived:
		next.ReceivedBy = &actor
		next.ReceivedAt = &now
	case model.TransferCancelled:
		next.CancelledBy = &actor
		next.CancelledAt = &now
		if tctx.Reason != "" {
			reason := tctx.Reason
			next.CancellationReason = &reason
		}
	}

	audit := &AuditEntry{
		TransferID: transfer.ID,
		TenantID:   tctx.TenantID,
		ActorID:    tctx.UserID,
		FromStatus: transfer.Status,
		ToStatus:   target,
		Reason:     tctx.Reason,
		IPAddress:  tctx.IPAddress,
		UserAgent:  tctx.UserAgent,
		OccurredAt: now,
	}
	return &next, audit, nil
}

func verbFor(target model.TransferStatus) string {
	if verb, ok := transitionVerbs[target]; ok {
		return verb
	}
	return "transition"
}
