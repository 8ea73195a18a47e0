package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubTransferRepo is an in-memory TransferRepository.
type stubTransferRepo struct {
	transfers map[uuid.UUID]*model.TransferRequest
	// forceConflicts makes the next N conditional updates report a conflict
	forceConflicts int
}

func newStubTransferRepo() *stubTransferRepo {
	return &stubTransferRepo{transfers: make(map[uuid.UUID]*model.TransferRequest)}
}

func (r *stubTransferRepo) Create(_ context.Context, t *model.TransferRequest) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.transfers[t.ID] = &cp
	return nil
}

func (r *stubTransferRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.TransferRequest, error) {
	t, ok := r.transfers[id]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *stubTransferRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.TransferFilter) ([]model.TransferRequest, int64, error) {
	var out []model.TransferRequest
	for _, t := range r.transfers {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTransferRepo) UpdateWithStatusCheck(_ context.Context, t *model.TransferRequest, expected model.TransferStatus) (bool, error) {
	if r.forceConflicts > 0 {
		r.forceConflicts--
		return true, nil
	}
	stored, ok := r.transfers[t.ID]
	if !ok || stored.Status != expected {
		return true, nil
	}
	cp := *t
	r.transfers[t.ID] = &cp
	return false, nil
}

func (r *stubTransferRepo) FindStale(_ context.Context, priority string, cutoff time.Time) ([]model.TransferRequest, error) {
	var out []model.TransferRequest
	for _, t := range r.transfers {
		if t.Priority == priority && t.Status == model.TransferRequested && t.RequestedAt.Before(cutoff) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTransferRepo) DB() *gorm.DB { return nil }

var _ repository.TransferRepository = (*stubTransferRepo)(nil)

// stubLocationRepo returns a location for every known ID.
type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
}

func (r *stubLocationRepo) add(tenantID uuid.UUID, name string) uuid.UUID {
	id := uuid.New()
	r.locations[id] = &model.Location{ID: id, TenantID: tenantID, Name: name, Type: model.LocationRestaurant, Active: true}
	return id
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok || l.TenantID != tenantID {
		return nil, nil
	}
	return l, nil
}

func (r *stubLocationRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Location, error) {
	var out []model.Location
	for _, l := range r.locations {
		if l.TenantID == tenantID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *model.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) Deactivate(_ context.Context, _, id uuid.UUID) error {
	if l, ok := r.locations[id]; ok {
		l.Active = false
	}
	return nil
}

var _ repository.LocationRepository = (*stubLocationRepo)(nil)

// stubAuditRepo captures created audit rows for assertion.
type stubAuditRepo struct {
	audits []model.TransferAudit
}

func (r *stubAuditRepo) Create(_ context.Context, a *model.TransferAudit) error {
	r.audits = append(r.audits, *a)
	return nil
}

func (r *stubAuditRepo) ListByTransfer(_ context.Context, tenantID, transferID uuid.UUID) ([]model.TransferAudit, error) {
	var out []model.TransferAudit
	for _, a := range r.audits {
		if a.TenantID == tenantID && a.TransferID == transferID {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ repository.TransferAuditRepository = (*stubAuditRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

func buildTransferSvc() (service.TransferService, *stubTransferRepo, *stubLocationRepo, uuid.UUID, uuid.UUID) {
	tenantID := uuid.New()
	userID := uuid.New()
	transferRepo := newStubTransferRepo()
	locationRepo := newStubLocationRepo()
	// nil dispatcher: async side effects are skipped in unit tests
	svc := service.NewTransferService(transferRepo, locationRepo, &stubAuditRepo{}, nil, "ops@example.com")
	return svc, transferRepo, locationRepo, tenantID, userID
}

func createTransfer(t *testing.T, svc service.TransferService, locs *stubLocationRepo, tenantID, userID uuid.UUID, qty int) *dto.TransferResponse {
	t.Helper()
	from := locs.add(tenantID, "Commissary")
	to := locs.add(tenantID, "Downtown")
	resp, err := svc.Create(context.Background(), tenantID, userID, dto.CreateTransferRequest{
		FromLocationID: from.String(),
		ToLocationID:   to.String(),
		ProductID:      uuid.NewString(),
		Quantity:       qty,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateTransferStartsRequested(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()

	resp := createTransfer(t, svc, locs, tenantID, userID, 40)

	assert.Equal(t, "REQUESTED", resp.Status)
	assert.Equal(t, "NORMAL", resp.Priority)
	assert.Equal(t, 40, resp.Quantity)
	assert.Equal(t, userID.String(), resp.RequestedBy)
}

func TestCreateTransferRejectsSameLocation(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	loc := locs.add(tenantID, "Commissary")

	_, err := svc.Create(context.Background(), tenantID, userID, dto.CreateTransferRequest{
		FromLocationID: loc.String(),
		ToLocationID:   loc.String(),
		ProductID:      uuid.NewString(),
		Quantity:       10,
	})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}

func TestGetMissingTransferIsNotFound(t *testing.T) {
	svc, _, _, tenantID, _ := buildTransferSvc()

	_, err := svc.Get(context.Background(), tenantID, uuid.New())

	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
	assert.Equal(t, "Transfer not found", err.Error())
}

func TestTransferInvisibleAcrossTenants(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 10)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Get(context.Background(), uuid.New(), id)

	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
}

func TestCancelRequestedTransfer(t *testing.T) {
	svc, repo, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 25)
	id := uuid.MustParse(resp.ID)

	cancelled, err := svc.Cancel(context.Background(), tenantID, userID, id, service.TransitionInput{Reason: "ordered by mistake"})

	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "ordered by mistake", *cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, userID.String(), *cancelled.CancelledBy)

	stored := repo.transfers[id]
	assert.Equal(t, model.TransferCancelled, stored.Status)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 25)

	_, err := svc.Cancel(context.Background(), tenantID, userID, uuid.MustParse(resp.ID), service.TransitionInput{})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}

func TestCancelShippedTransferFails(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 30)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityShipped: 30})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), tenantID, userID, id, service.TransitionInput{Reason: "too late"})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Equal(t, "Cannot cancel transfer in SHIPPED status", err.Error())
}

func TestApproveStampsActorAndTimestamp(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 12)

	approved, err := svc.Approve(context.Background(), tenantID, userID, uuid.MustParse(resp.ID), service.TransitionInput{})

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, userID.String(), *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestRejectRecordsReason(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 12)

	rejected, err := svc.Reject(context.Background(), tenantID, userID, uuid.MustParse(resp.ID), service.TransitionInput{Reason: "insufficient stock at source"})

	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "insufficient stock at source", *rejected.RejectionReason)
}

func TestShipQuantityCannotExceedRequested(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 20)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})
	require.NoError(t, err)

	_, err = svc.Ship(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityShipped: 25})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Equal(t, "Shipped quantity exceeds requested quantity", err.Error())
}

func TestReceiveUnderShippedRequiresVarianceReason(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 20)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityShipped: 20})
	require.NoError(t, err)

	// Short receipt without a reason is rejected
	_, err = svc.Receive(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityReceived: 18})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))

	// With a reason the transfer completes and the variance is recorded
	received, err := svc.Receive(context.Background(), tenantID, userID, id, service.TransitionInput{
		QuantityReceived: 18,
		VarianceReason:   "two cases damaged in transit",
	})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", received.Status)
	require.NotNil(t, received.QuantityReceived)
	assert.Equal(t, 18, *received.QuantityReceived)
	require.NotNil(t, received.VarianceReason)
	assert.Equal(t, "two cases damaged in transit", *received.VarianceReason)
}

func TestReceiveCannotExceedShipped(t *testing.T) {
	svc, _, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 20)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityShipped: 15})
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), tenantID, userID, id, service.TransitionInput{QuantityReceived: 16})

	require.Error(t, err)
	assert.Equal(t, "Received quantity exceeds shipped quantity", err.Error())
}

func TestTransitionRetriesOnceOnConflict(t *testing.T) {
	svc, repo, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 10)
	id := uuid.MustParse(resp.ID)

	// First conditional update reports a conflict; the retry succeeds
	repo.forceConflicts = 1
	approved, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
}

func TestTransitionGivesUpAfterRetry(t *testing.T) {
	svc, repo, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 10)
	id := uuid.MustParse(resp.ID)

	repo.forceConflicts = 2
	_, err := svc.Approve(context.Background(), tenantID, userID, id, service.TransitionInput{})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}

func TestFullLifecycle(t *testing.T) {
	svc, repo, locs, tenantID, userID := buildTransferSvc()
	resp := createTransfer(t, svc, locs, tenantID, userID, 50)
	id := uuid.MustParse(resp.ID)
	ctx := context.Background()

	_, err := svc.Approve(ctx, tenantID, userID, id, service.TransitionInput{})
	require.NoError(t, err)
	_, err = svc.Ship(ctx, tenantID, userID, id, service.TransitionInput{QuantityShipped: 50})
	require.NoError(t, err)
	final, err := svc.Receive(ctx, tenantID, userID, id, service.TransitionInput{QuantityReceived: 50})
	require.NoError(t, err)

	assert.Equal(t, "RECEIVED", final.Status)
	assert.Nil(t, final.VarianceReason)

	// Terminal: no further transition is legal
	_, err = svc.Cancel(ctx, tenantID, userID, id, service.TransitionInput{Reason: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Cannot cancel transfer in RECEIVED status", err.Error())

	stored := repo.transfers[id]
	assert.Equal(t, 50, stored.QuantityShipped)
	assert.Equal(t, 50, stored.QuantityReceived)
}
