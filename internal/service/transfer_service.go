package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/worker"
)

// TransitionInput carries per-transition request data into the service.
// Quantity fields apply only to ship and receive.
type TransitionInput struct {
	Reason           string
	IPAddress        string
	UserAgent        string
	QuantityShipped  int
	QuantityReceived int
	VarianceReason   string
}

type TransferService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.TransferResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.TransferFilter) ([]dto.TransferResponse, int64, error)
	ListAudits(ctx context.Context, tenantID, id uuid.UUID) ([]dto.TransferAuditResponse, error)

	Approve(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error)
	Reject(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error)
	Ship(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error)
	Receive(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error)
	Cancel(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error)
}

type transferService struct {
	transfers  repository.TransferRepository
	locations  repository.LocationRepository
	audits     repository.TransferAuditRepository
	dispatcher *worker.Dispatcher
	opsEmail   string
}

func NewTransferService(
	transfers repository.TransferRepository,
	locations repository.LocationRepository,
	audits repository.TransferAuditRepository,
	dispatcher *worker.Dispatcher,
	opsEmail string,
) TransferService {
	return &transferService{
		transfers:  transfers,
		locations:  locations,
		audits:     audits,
		dispatcher: dispatcher,
		opsEmail:   opsEmail,
	}
}

func (s *transferService) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	fromID, err := uuid.Parse(req.FromLocationID)
	if err != nil {
		return nil, engine.NewValidationError("invalid from_location_id: %s", req.FromLocationID)
	}
	toID, err := uuid.Parse(req.ToLocationID)
	if err != nil {
		return nil, engine.NewValidationError("invalid to_location_id: %s", req.ToLocationID)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, engine.NewValidationError("invalid product_id: %s", req.ProductID)
	}
	if fromID == toID {
		return nil, engine.NewValidationError("Source and destination locations must differ")
	}

	for _, locID := range []uuid.UUID{fromID, toID} {
		loc, err := s.locations.FindByID(ctx, tenantID, locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, engine.NewNotFoundError("Location not found: %s", locID)
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	transfer := &model.TransferRequest{
		TenantID:              tenantID,
		ProductID:             productID,
		SourceLocationID:      fromID,
		DestinationLocationID: toID,
		QuantityRequested:     req.Quantity,
		Status:                model.TransferRequested,
		Priority:              priority,
		RequestedBy:           userID,
		RequestedAt:           time.Now().UTC(),
	}
	if req.Notes != "" {
		notes := req.Notes
		transfer.Notes = &notes
	}

	if err := s.transfers.Create(ctx, transfer); err != nil {
		return nil, err
	}

	s.notify(ctx, fmt.Sprintf("Transfer requested: %s", transfer.ID),
		fmt.Sprintf("A new transfer for %d units was requested (priority %s).", transfer.QuantityRequested, transfer.Priority))

	return transferToResponse(transfer), nil
}

func (s *transferService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.TransferResponse, error) {
	transfer, err := s.transfers.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, engine.NewNotFoundError("Transfer not found")
	}
	return transferToResponse(transfer), nil
}

func (s *transferService) List(ctx context.Context, tenantID uuid.UUID, filter dto.TransferFilter) ([]dto.TransferResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	transfers, total, err := s.transfers.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		resp = append(resp, *transferToResponse(&transfers[i]))
	}
	return resp, total, nil
}

func (s *transferService) ListAudits(ctx context.Context, tenantID, id uuid.UUID) ([]dto.TransferAuditResponse, error) {
	transfer, err := s.transfers.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, engine.NewNotFoundError("Transfer not found")
	}
	audits, err := s.audits.ListByTransfer(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TransferAuditResponse, 0, len(audits))
	for _, a := range audits {
		item := dto.TransferAuditResponse{
			ID:         a.ID.String(),
			TransferID: a.TransferID.String(),
			FromStatus: string(a.FromStatus),
			ToStatus:   string(a.ToStatus),
			ActorID:    a.ActorID.String(),
			OccurredAt: a.OccurredAt.Format(time.RFC3339),
		}
		if a.Reason != nil {
			item.Reason = *a.Reason
		}
		if a.IPAddress != nil {
			item.IPAddress = *a.IPAddress
		}
		if a.UserAgent != nil {
			item.UserAgent = *a.UserAgent
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *transferService) Approve(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error) {
	return s.transition(ctx, tenantID, userID, id, model.TransferApproved, in)
}

func (s *transferService) Reject(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error) {
	if in.Reason == "" {
		return nil, engine.NewValidationError("Rejection reason is required")
	}
	return s.transition(ctx, tenantID, userID, id, model.TransferRejected, in)
}

func (s *transferService) Ship(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error) {
	return s.transition(ctx, tenantID, userID, id, model.TransferShipped, in)
}

func (s *transferService) Receive(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error) {
	return s.transition(ctx, tenantID, userID, id, model.TransferReceived, in)
}

func (s *transferService) Cancel(ctx context.Context, tenantID, userID, id uuid.UUID, in TransitionInput) (*dto.TransferResponse, error) {
	if in.Reason == "" {
		return nil, engine.NewValidationError("Cancellation reason is required")
	}
	return s.transition(ctx, tenantID, userID, id, model.TransferCancelled, in)
}

// transition loads the transfer, runs the state machine, and persists the
// snapshot with a status-conditioned update. One retry on write conflict:
// the transfer is re-read and the transition re-validated against the fresh
// status, so a concurrent transition surfaces as the proper validation error
// instead of a silent overwrite.
func (s *transferService) transition(ctx context.Context, tenantID, userID, id uuid.UUID, target model.TransferStatus, in TransitionInput) (*dto.TransferResponse, error) {
	for attempt := 0; attempt < 2; attempt++ {
		transfer, err := s.transfers.FindByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if transfer == nil {
			return nil, engine.NewNotFoundError("Transfer not found")
		}

		if err := validateQuantities(transfer, target, in); err != nil {
			return nil, err
		}

		tctx := engine.TransitionContext{
			UserID:    userID,
			TenantID:  tenantID,
			Reason:    in.Reason,
			IPAddress: in.IPAddress,
			UserAgent: in.UserAgent,
		}
		next, audit, err := engine.ExecuteTransition(*transfer, target, tctx)
		if err != nil {
			return nil, err
		}

		applyQuantities(next, target, in)

		conflict, err := s.transfers.UpdateWithStatusCheck(ctx, next, transfer.Status)
		if err != nil {
			return nil, err
		}
		if conflict {
			log.Warn().
				Str("transfer_id", id.String()).
				Str("target", string(target)).
				Msg("transfer: concurrent transition detected, retrying")
			continue
		}

		s.enqueueAudit(ctx, audit)
		s.notify(ctx, fmt.Sprintf("Transfer %s %s", next.ID, target),
			fmt.Sprintf("Transfer %s moved from %s to %s.", next.ID, transfer.Status, target))

		return transferToResponse(next), nil
	}
	return nil, engine.NewValidationError("Transfer was modified concurrently, please retry")
}

// validateQuantities enforces the ship/receive quantity invariants before the
// state machine runs.
func validateQuantities(transfer *model.TransferRequest, target model.TransferStatus, in TransitionInput) error {
	switch target {
	case model.TransferShipped:
		if in.QuantityShipped <= 0 {
			return engine.NewValidationError("Shipped quantity must be greater than zero")
		}
		if in.QuantityShipped > transfer.QuantityRequested {
			return engine.NewValidationError("Shipped quantity exceeds requested quantity")
		}
	case model.TransferReceived:
		if in.QuantityReceived <= 0 {
			return engine.NewValidationError("Received quantity must be greater than zero")
		}
		if in.QuantityReceived > transfer.QuantityShipped {
			return engine.NewValidationError("Received quantity exceeds shipped quantity")
		}
		if in.QuantityReceived < transfer.QuantityShipped && in.VarianceReason == "" {
			return engine.NewValidationError("Variance reason is required when received quantity is below shipped quantity")
		}
	}
	return nil
}

func applyQuantities(next *model.TransferRequest, target model.TransferStatus, in TransitionInput) {
	switch target {
	case model.TransferShipped:
		next.QuantityShipped = in.QuantityShipped
	case model.TransferReceived:
		next.QuantityReceived = in.QuantityReceived
		if in.VarianceReason != "" {
			reason := in.VarianceReason
			next.VarianceReason = &reason
		}
	}
}

// enqueueAudit is best-effort: a full Redis outage must not fail the
// transition that already committed.
func (s *transferService) enqueueAudit(ctx context.Context, audit *engine.AuditEntry) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueTransferAudit(ctx, audit); err != nil {
		log.Error().Err(err).
			Str("transfer_id", audit.TransferID.String()).
			Msg("transfer: failed to enqueue audit entry")
	}
}

func (s *transferService) notify(ctx context.Context, subject, body string) {
	if s.dispatcher == nil || s.opsEmail == "" {
		return
	}
	payload := worker.NotificationJobPayload{ToEmail: s.opsEmail, Subject: subject, Body: body}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("transfer: failed to enqueue notification")
	}
}

func transferToResponse(t *model.TransferRequest) *dto.TransferResponse {
	resp := &dto.TransferResponse{
		ID:             t.ID.String(),
		FromLocationID: t.SourceLocationID.String(),
		ToLocationID:   t.DestinationLocationID.String(),
		ProductID:      t.ProductID.String(),
		Quantity:       t.QuantityRequested,
		Status:         string(t.Status),
		Priority:       t.Priority,
		RequestedBy:    t.RequestedBy.String(),
		RequestedAt:    t.RequestedAt.Format(time.RFC3339),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.QuantityShipped > 0 {
		qty := t.QuantityShipped
		resp.QuantityShipped = &qty
	}
	if t.QuantityReceived > 0 {
		qty := t.QuantityReceived
		resp.QuantityReceived = &qty
	}
	resp.ApprovedBy = uuidPtrToString(t.ApprovedBy)
	resp.ApprovedAt = timePtrToString(t.ApprovedAt)
	resp.RejectedBy = uuidPtrToString(t.RejectedBy)
	resp.RejectedAt = timePtrToString(t.RejectedAt)
	resp.RejectionReason = t.RejectionReason
	resp.ShippedBy = uuidPtrToString(t.ShippedBy)
	resp.ShippedAt = timePtrToString(t.ShippedAt)
	resp.ReceivedBy = uuidPtrToString(t.ReceivedBy)
	resp.ReceivedAt = timePtrToString(t.ReceivedAt)
	resp.CancelledBy = uuidPtrToString(t.CancelledBy)
	resp.CancelledAt = timePtrToString(t.CancelledAt)
	resp.CancellationReason = t.CancellationReason
	resp.VarianceReason = t.VarianceReason
	if t.Notes != nil {
		resp.Notes = *t.Notes
	}
	return resp
}

func uuidPtrToString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func timePtrToString(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.Format(time.RFC3339)
	return &s
}
