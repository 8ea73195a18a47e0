package service_test

import (
	"context"
	"testing"

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

type stubOrderRepo struct {
	orders    map[uuid.UUID]*model.PurchaseOrder
	lineItems map[uuid.UUID]*model.PurchaseOrderLineItem
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:    make(map[uuid.UUID]*model.PurchaseOrder),
		lineItems: make(map[uuid.UUID]*model.PurchaseOrderLineItem),
	}
}

func (r *stubOrderRepo) addLineItem(tenantID uuid.UUID, quantityOrdered int) uuid.UUID {
	id := uuid.New()
	r.lineItems[id] = &model.PurchaseOrderLineItem{
		ID:              id,
		TenantID:        tenantID,
		PurchaseOrderID: uuid.New(),
		ProductID:       uuid.New(),
		QuantityOrdered: quantityOrdered,
	}
	return id
}

func (r *stubOrderRepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	r.orders[po.ID] = po
	for i := range po.LineItems {
		item := po.LineItems[i]
		r.lineItems[item.ID] = &item
	}
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok || po.TenantID != tenantID {
		return nil, nil
	}
	return po, nil
}

func (r *stubOrderRepo) FindLineItemByID(_ context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrderLineItem, error) {
	item, ok := r.lineItems[id]
	if !ok || item.TenantID != tenantID {
		return nil, nil
	}
	return item, nil
}

func (r *stubOrderRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	var out []model.PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID == tenantID {
			out = append(out, *po)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, _, id uuid.UUID, status string) error {
	if po, ok := r.orders[id]; ok {
		po.Status = status
	}
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseOrderRepository = (*stubOrderRepo)(nil)

type stubAllocRepo struct {
	allocations []model.Allocation
}

func (r *stubAllocRepo) Create(_ context.Context, a *model.Allocation) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.allocations = append(r.allocations, *a)
	return nil
}

func (r *stubAllocRepo) ListByLineItem(_ context.Context, tenantID, lineItemID uuid.UUID) ([]model.Allocation, error) {
	var out []model.Allocation
	for _, a := range r.allocations {
		if a.TenantID == tenantID && a.LineItemID == lineItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAllocRepo) SumQuantityByLineItem(_ context.Context, tenantID, lineItemID uuid.UUID) (int, error) {
	sum := 0
	for _, a := range r.allocations {
		if a.TenantID == tenantID && a.LineItemID == lineItemID && a.Status != "CANCELLED" {
			sum += a.QuantityAllocated
		}
	}
	return sum, nil
}

func (r *stubAllocRepo) DB() *gorm.DB { return nil }

var _ repository.AllocationRepository = (*stubAllocRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

func buildAllocationSvc() (service.AllocationService, *stubOrderRepo, *stubAllocRepo, *stubLocationRepo, uuid.UUID, uuid.UUID) {
	tenantID := uuid.New()
	userID := uuid.New()
	orders := newStubOrderRepo()
	allocs := &stubAllocRepo{}
	locs := newStubLocationRepo()
	eng := engine.NewAllocationEngine(repository.NewEnginePort(orders, allocs))
	// nil redis client: the unallocated cache degrades to a no-op
	svc := service.NewAllocationService(eng, orders, allocs, locs, nil)
	return svc, orders, allocs, locs, tenantID, userID
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestPreviewDistributionSplitsByPercentage(t *testing.T) {
	svc, _, _, _, _, _ := buildAllocationSvc()
	locA, locB := uuid.NewString(), uuid.NewString()

	resp, err := svc.PreviewDistribution(context.Background(), dto.PreviewDistributionRequest{
		TotalQuantity: 100,
		Percentages: []dto.LocationPercentageItem{
			{LocationID: locA, Percentage: 60},
			{LocationID: locB, Percentage: 40},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 100, resp.TotalAllocated)
	assert.Equal(t, 0, resp.Remainder)
	require.Len(t, resp.Distributions, 2)
	assert.Equal(t, locA, resp.Distributions[0].LocationID)
	assert.Equal(t, 60, resp.Distributions[0].Quantity)
	assert.Equal(t, 40, resp.Distributions[1].Quantity)
}

func TestPreviewDistributionNeverOverAllocates(t *testing.T) {
	svc, _, _, _, _, _ := buildAllocationSvc()

	// 3 × 33.33% of 100 floors to 33 each, leaving 1 behind
	resp, err := svc.PreviewDistribution(context.Background(), dto.PreviewDistributionRequest{
		TotalQuantity: 100,
		Percentages: []dto.LocationPercentageItem{
			{LocationID: uuid.NewString(), Percentage: 33.33},
			{LocationID: uuid.NewString(), Percentage: 33.33},
			{LocationID: uuid.NewString(), Percentage: 33.33},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 99, resp.TotalAllocated)
	assert.Equal(t, 1, resp.Remainder)
}

func TestPreviewDistributionRejectsOver100Percent(t *testing.T) {
	svc, _, _, _, _, _ := buildAllocationSvc()

	_, err := svc.PreviewDistribution(context.Background(), dto.PreviewDistributionRequest{
		TotalQuantity: 100,
		Percentages: []dto.LocationPercentageItem{
			{LocationID: uuid.NewString(), Percentage: 60},
			{LocationID: uuid.NewString(), Percentage: 50},
		},
	})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Equal(t, "Total percentage (110%) exceeds 100%", err.Error())
}

func TestPlanPercentageStrategy(t *testing.T) {
	svc, orders, _, locs, tenantID, _ := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)
	locA := locs.add(tenantID, "Downtown")
	locB := locs.add(tenantID, "Harbor")

	resp, err := svc.Plan(context.Background(), tenantID, dto.PlanAllocationRequest{
		LineItemID:  itemID.String(),
		LocationIDs: []string{locA.String(), locB.String()},
		Strategy:    "PERCENTAGE",
		Percentages: map[string]float64{
			locA.String(): 50,
			locB.String(): 50,
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Feasible)
	require.Len(t, resp.Allocations, 2)
	assert.Equal(t, 50, resp.Allocations[0].Quantity)
	assert.Equal(t, 50, resp.Allocations[1].Quantity)
	assert.InDelta(t, 100, resp.OptimizationScore, 0.01)
}

func TestPlanManualStrategyLeavesEverythingUnallocated(t *testing.T) {
	svc, orders, _, locs, tenantID, _ := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 80)
	loc := locs.add(tenantID, "Downtown")

	resp, err := svc.Plan(context.Background(), tenantID, dto.PlanAllocationRequest{
		LineItemID:  itemID.String(),
		LocationIDs: []string{loc.String()},
		Strategy:    "MANUAL",
	})

	require.NoError(t, err)
	assert.True(t, resp.Feasible)
	assert.Empty(t, resp.Allocations)
}

func TestPlanFixedAmountOverOrderedIsInfeasible(t *testing.T) {
	svc, orders, _, locs, tenantID, _ := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 50)
	locA := locs.add(tenantID, "Downtown")
	locB := locs.add(tenantID, "Harbor")

	resp, err := svc.Plan(context.Background(), tenantID, dto.PlanAllocationRequest{
		LineItemID:  itemID.String(),
		LocationIDs: []string{locA.String(), locB.String()},
		Strategy:    "FIXED_AMOUNT",
		Amounts: map[string]int{
			locA.String(): 30,
			locB.String(): 30,
		},
	})

	require.NoError(t, err)
	assert.False(t, resp.Feasible)
	assert.Empty(t, resp.Allocations)
	assert.Zero(t, resp.OptimizationScore)
	assert.NotEmpty(t, resp.Reason)
}

func TestPlanUnknownLineItem(t *testing.T) {
	svc, _, _, locs, tenantID, _ := buildAllocationSvc()
	loc := locs.add(tenantID, "Downtown")

	_, err := svc.Plan(context.Background(), tenantID, dto.PlanAllocationRequest{
		LineItemID:  uuid.NewString(),
		LocationIDs: []string{loc.String()},
		Strategy:    "MANUAL",
	})

	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
	assert.Equal(t, "PO item not found", err.Error())
}

func TestValidateFlagsZeroQuantity(t *testing.T) {
	svc, orders, _, _, tenantID, _ := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)

	check, err := svc.Validate(context.Background(), tenantID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   0,
	})

	require.NoError(t, err)
	assert.False(t, check.Valid)
	require.NotEmpty(t, check.Errors)
	assert.Equal(t, "Allocation quantity must be greater than zero", check.Errors[0])
}

func TestCreateAllocationPersists(t *testing.T) {
	svc, orders, allocs, _, tenantID, userID := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)
	locationID := uuid.New()

	resp, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: locationID.String(),
		Quantity:   40,
	})

	require.NoError(t, err)
	assert.Equal(t, 40, resp.QuantityAllocated)
	assert.Equal(t, "PENDING", resp.Status)
	require.Len(t, allocs.allocations, 1)
	assert.Equal(t, userID, allocs.allocations[0].CreatedBy)
}

func TestCreateAllocationRejectsOverAllocation(t *testing.T) {
	svc, orders, _, _, tenantID, userID := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)

	_, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   70,
	})
	require.NoError(t, err)

	// 70 + 40 = 110 against 100 ordered
	_, err = svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   40,
	})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Equal(t, "Over-allocation detected: 10 units exceed ordered quantity", err.Error())
}

func TestCreateAllocationIgnoresCancelledRows(t *testing.T) {
	svc, orders, allocs, _, tenantID, userID := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)

	// A cancelled allocation must not count against the ceiling
	allocs.allocations = append(allocs.allocations, model.Allocation{
		ID:                uuid.New(),
		TenantID:          tenantID,
		LineItemID:        itemID,
		LocationID:        uuid.New(),
		QuantityAllocated: 90,
		Status:            "CANCELLED",
	})

	resp, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   100,
	})

	require.NoError(t, err)
	assert.Equal(t, 100, resp.QuantityAllocated)
}

func TestCreateAllocationUnknownLineItem(t *testing.T) {
	svc, _, _, _, tenantID, userID := buildAllocationSvc()

	_, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: uuid.NewString(),
		LocationID: uuid.NewString(),
		Quantity:   10,
	})

	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Equal(t, "PO item not found", err.Error())
}

func TestUnallocatedQuantity(t *testing.T) {
	svc, orders, _, _, tenantID, userID := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)

	_, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   65,
	})
	require.NoError(t, err)

	resp, err := svc.Unallocated(context.Background(), tenantID, itemID)

	require.NoError(t, err)
	assert.Equal(t, 100, resp.QuantityOrdered)
	assert.Equal(t, 65, resp.QuantityAllocated)
	assert.Equal(t, 35, resp.QuantityUnallocated)
}

func TestUnallocatedUnknownLineItem(t *testing.T) {
	svc, _, _, _, tenantID, _ := buildAllocationSvc()

	_, err := svc.Unallocated(context.Background(), tenantID, uuid.New())

	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
	assert.Equal(t, "PO item not found", err.Error())
}

func TestAllocationsInvisibleAcrossTenants(t *testing.T) {
	svc, orders, _, _, tenantID, userID := buildAllocationSvc()
	itemID := orders.addLineItem(tenantID, 100)

	_, err := svc.Create(context.Background(), tenantID, userID, dto.CreateAllocationRequest{
		LineItemID: itemID.String(),
		LocationID: uuid.NewString(),
		Quantity:   10,
	})
	require.NoError(t, err)

	// Another tenant sees neither the line item nor its allocations
	_, err = svc.Unallocated(context.Background(), uuid.New(), itemID)
	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))

	listed, err := svc.ListByLineItem(context.Background(), uuid.New(), itemID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
