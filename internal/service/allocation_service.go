package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
)

const unallocatedCacheTTL = 60 * time.Second

type AllocationService interface {
	PreviewDistribution(ctx context.Context, req dto.PreviewDistributionRequest) (*dto.DistributionResponse, error)
	Plan(ctx context.Context, tenantID uuid.UUID, req dto.PlanAllocationRequest) (*dto.AllocationPlanResponse, error)
	Validate(ctx context.Context, tenantID uuid.UUID, req dto.CreateAllocationRequest) (*dto.MathCheckResponse, error)
	Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateAllocationRequest) (*dto.AllocationResponse, error)
	ListByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) ([]dto.AllocationResponse, error)
	Unallocated(ctx context.Context, tenantID, lineItemID uuid.UUID) (*dto.UnallocatedResponse, error)
}

type allocationService struct {
	eng       *engine.AllocationEngine
	orders    repository.PurchaseOrderRepository
	allocs    repository.AllocationRepository
	locations repository.LocationRepository
	rdb       *redis.Client // nil in unit tests — caching becomes a no-op
}

func NewAllocationService(
	eng *engine.AllocationEngine,
	orders repository.PurchaseOrderRepository,
	allocs repository.AllocationRepository,
	locations repository.LocationRepository,
	rdb *redis.Client,
) AllocationService {
	return &allocationService{
		eng:       eng,
		orders:    orders,
		allocs:    allocs,
		locations: locations,
		rdb:       rdb,
	}
}

// PreviewDistribution runs a pure percentage split with no persistence.
func (s *allocationService) PreviewDistribution(_ context.Context, req dto.PreviewDistributionRequest) (*dto.DistributionResponse, error) {
	percentages := make([]engine.LocationPercentage, 0, len(req.Percentages))
	for _, p := range req.Percentages {
		id, err := uuid.Parse(p.LocationID)
		if err != nil {
			return nil, engine.NewValidationError("invalid location_id: %s", p.LocationID)
		}
		percentages = append(percentages, engine.LocationPercentage{LocationID: id, Percent: p.Percentage})
	}

	result, err := s.eng.DistributeByPercentage(req.TotalQuantity, percentages)
	if err != nil {
		return nil, err
	}

	resp := &dto.DistributionResponse{
		Distributions:  make([]dto.DistributionItemResponse, 0, len(result.Distributions)),
		TotalAllocated: result.TotalDistributed,
		Remainder:      result.RemainingQuantity,
	}
	for _, d := range result.Distributions {
		resp.Distributions = append(resp.Distributions, dto.DistributionItemResponse{
			LocationID: d.LocationID.String(),
			Quantity:   d.AllocatedQuantity,
			Percentage: d.Percentage,
		})
	}
	return resp, nil
}

// Plan applies an allocation strategy to one line item and the requested
// locations. The plan is advisory — nothing is persisted until Create.
func (s *allocationService) Plan(ctx context.Context, tenantID uuid.UUID, req dto.PlanAllocationRequest) (*dto.AllocationPlanResponse, error) {
	lineItemID, err := uuid.Parse(req.LineItemID)
	if err != nil {
		return nil, engine.NewValidationError("invalid line_item_id: %s", req.LineItemID)
	}
	item, err := s.orders.FindLineItemByID(ctx, tenantID, lineItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, engine.NewNotFoundError("PO item not found")
	}

	locations := make([]model.Location, 0, len(req.LocationIDs))
	for _, raw := range req.LocationIDs {
		locID, err := uuid.Parse(raw)
		if err != nil {
			return nil, engine.NewValidationError("invalid location_id: %s", raw)
		}
		loc, err := s.locations.FindByID(ctx, tenantID, locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, engine.NewNotFoundError("Location not found: %s", raw)
		}
		locations = append(locations, *loc)
	}

	strategy, err := buildStrategy(req)
	if err != nil {
		return nil, err
	}

	plan, err := s.eng.CalculateOptimalAllocation([]model.PurchaseOrderLineItem{*item}, locations, strategy)
	if err != nil {
		return nil, err
	}

	resp := &dto.AllocationPlanResponse{
		Feasible:          plan.Feasible,
		Allocations:       make([]dto.PlannedAllocationResponse, 0, len(plan.Allocations)),
		OptimizationScore: plan.OptimizationScore,
	}
	if !plan.Feasible {
		resp.Reason = "requested distribution exceeds the ordered quantity"
	}
	for _, a := range plan.Allocations {
		resp.Allocations = append(resp.Allocations, dto.PlannedAllocationResponse{
			LocationID: a.LocationID.String(),
			Quantity:   a.Quantity,
		})
	}
	return resp, nil
}

func buildStrategy(req dto.PlanAllocationRequest) (engine.Strategy, error) {
	switch req.Strategy {
	case "MANUAL":
		return engine.ManualStrategy{}, nil
	case "PERCENTAGE":
		percentages := make(map[uuid.UUID]float64, len(req.Percentages))
		for raw, pct := range req.Percentages {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, engine.NewValidationError("invalid location_id: %s", raw)
			}
			percentages[id] = pct
		}
		return engine.PercentageStrategy{LocationPercentages: percentages}, nil
	case "FIXED_AMOUNT":
		amounts := make(map[uuid.UUID]int, len(req.Amounts))
		for raw, amount := range req.Amounts {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, engine.NewValidationError("invalid location_id: %s", raw)
			}
			amounts[id] = amount
		}
		return engine.FixedAmountStrategy{LocationAmounts: amounts}, nil
	default:
		return nil, engine.NewValidationError("Unknown allocation strategy")
	}
}

// Validate runs the allocation math check without persisting anything.
func (s *allocationService) Validate(ctx context.Context, tenantID uuid.UUID, req dto.CreateAllocationRequest) (*dto.MathCheckResponse, error) {
	check, _, _, err := s.runMathCheck(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	return mathCheckToResponse(check), nil
}

// Create persists an allocation after the math check passes. The cached
// unallocated quantity for the line item is invalidated on success.
func (s *allocationService) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateAllocationRequest) (*dto.AllocationResponse, error) {
	check, lineItemID, locationID, err := s.runMathCheck(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	if !check.Valid {
		return nil, engine.NewValidationError("%s", check.Errors[0])
	}

	alloc := &model.Allocation{
		TenantID:          tenantID,
		LineItemID:        lineItemID,
		LocationID:        locationID,
		QuantityAllocated: req.Quantity,
		Status:            "PENDING",
		CreatedBy:         userID,
	}
	if err := s.allocs.Create(ctx, alloc); err != nil {
		return nil, err
	}

	s.invalidateUnallocated(ctx, lineItemID)
	return allocationToResponse(alloc), nil
}

func (s *allocationService) runMathCheck(ctx context.Context, tenantID uuid.UUID, req dto.CreateAllocationRequest) (*engine.MathCheck, uuid.UUID, uuid.UUID, error) {
	lineItemID, err := uuid.Parse(req.LineItemID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, engine.NewValidationError("invalid line_item_id: %s", req.LineItemID)
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, engine.NewValidationError("invalid location_id: %s", req.LocationID)
	}

	existing, err := s.allocs.ListByLineItem(ctx, tenantID, lineItemID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, err
	}
	active := make([]model.Allocation, 0, len(existing))
	for _, a := range existing {
		if a.Status != "CANCELLED" {
			active = append(active, a)
		}
	}

	check, err := s.eng.ValidateAllocationMath(ctx, tenantID, lineItemID, active, engine.AllocationCandidate{
		LocationID:        locationID,
		QuantityAllocated: req.Quantity,
	})
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, err
	}
	return check, lineItemID, locationID, nil
}

func (s *allocationService) ListByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) ([]dto.AllocationResponse, error) {
	allocations, err := s.allocs.ListByLineItem(ctx, tenantID, lineItemID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AllocationResponse, 0, len(allocations))
	for i := range allocations {
		resp = append(resp, *allocationToResponse(&allocations[i]))
	}
	return resp, nil
}

// Unallocated returns the remaining quantity for a line item. The value is
// cached briefly in Redis; cache failures fall through to the engine.
func (s *allocationService) Unallocated(ctx context.Context, tenantID, lineItemID uuid.UUID) (*dto.UnallocatedResponse, error) {
	item, err := s.orders.FindLineItemByID(ctx, tenantID, lineItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, engine.NewNotFoundError("PO item not found")
	}

	unallocated, cached := s.cachedUnallocated(ctx, lineItemID)
	if !cached {
		unallocated, err = s.eng.CalculateUnallocatedQuantity(ctx, lineItemID, tenantID)
		if err != nil {
			return nil, err
		}
		s.storeUnallocated(ctx, lineItemID, unallocated)
	}

	return &dto.UnallocatedResponse{
		LineItemID:          lineItemID.String(),
		QuantityOrdered:     item.QuantityOrdered,
		QuantityAllocated:   item.QuantityOrdered - unallocated,
		QuantityUnallocated: unallocated,
	}, nil
}

func unallocatedKey(lineItemID uuid.UUID) string {
	return "unallocated:lineitem:" + lineItemID.String()
}

func (s *allocationService) cachedUnallocated(ctx context.Context, lineItemID uuid.UUID) (int, bool) {
	if s.rdb == nil {
		return 0, false
	}
	raw, err := s.rdb.Get(ctx, unallocatedKey(lineItemID)).Result()
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *allocationService) storeUnallocated(ctx context.Context, lineItemID uuid.UUID, v int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, unallocatedKey(lineItemID), strconv.Itoa(v), unallocatedCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("allocation: unallocated cache write failed")
	}
}

func (s *allocationService) invalidateUnallocated(ctx context.Context, lineItemID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, unallocatedKey(lineItemID)).Err(); err != nil {
		log.Debug().Err(err).Msg("allocation: unallocated cache invalidation failed")
	}
}

func mathCheckToResponse(c *engine.MathCheck) *dto.MathCheckResponse {
	return &dto.MathCheckResponse{
		Valid:             c.Valid,
		TotalAllocated:    c.TotalAllocated,
		RemainingQuantity: c.RemainingQuantity,
		OverAllocation:    c.OverAllocation,
		Errors:            c.Errors,
	}
}

func allocationToResponse(a *model.Allocation) *dto.AllocationResponse {
	return &dto.AllocationResponse{
		ID:                a.ID.String(),
		LineItemID:        a.LineItemID.String(),
		LocationID:        a.LocationID.String(),
		QuantityAllocated: a.QuantityAllocated,
		QuantityReceived:  a.QuantityReceived,
		Status:            a.Status,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}
