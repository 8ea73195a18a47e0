package engine

import (
	"context"
	"math"
	"strconv"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"

	"github.com/google/uuid"
)

// percentEpsilon absorbs float artifacts when percentage lists are compared
// against 100 (33.33 + 33.33 + 33.34 must not trip the over-100 check).
const percentEpsilon = 1e-9

// LocationPercentage is one requested slice of a percentage distribution.
type LocationPercentage struct {
	LocationID uuid.UUID `json:"location_id"`
	Percent    float64   `json:"percent"`
}

// LocationDistribution is one computed slice of a distribution.
type LocationDistribution struct {
	LocationID        uuid.UUID `json:"location_id"`
	AllocatedQuantity int       `json:"allocated_quantity"`
	Percentage        float64   `json:"percentage"` // achieved, not requested
}

// DistributionResult is the outcome of splitting a quantity across locations.
type DistributionResult struct {
	Distributions        []LocationDistribution `json:"distributions"`
	TotalDistributed     int                    `json:"total_distributed"`
	RemainingQuantity    int                    `json:"remaining_quantity"`
	DistributionAccuracy float64                `json:"distribution_accuracy"` // 0–100
}

// AllocationCandidate is a proposed allocation checked by ValidateAllocationMath.
type AllocationCandidate struct {
	LocationID        uuid.UUID
	QuantityAllocated int
}

// MathCheck is the structured result of ValidateAllocationMath. It reports
// one or many problems instead of failing on the first so callers can show
// field-level errors together; the error return of the method is reserved
// for repository I/O failures.
type MathCheck struct {
	Valid             bool     `json:"valid"`
	TotalAllocated    int      `json:"total_allocated"`
	RemainingQuantity int      `json:"remaining_quantity"`
	OverAllocation    int      `json:"over_allocation"`
	Errors            []string `json:"errors"`
}

// PlannedAllocation is one row of an AllocationPlan.
type PlannedAllocation struct {
	LineItemID uuid.UUID `json:"line_item_id"`
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int       `json:"quantity"`
	Percentage float64   `json:"percentage"`
}

// AllocationPlan is the outcome of applying a strategy to a set of line
// items and locations. An infeasible plan always scores exactly 0 and
// carries no allocations — it must never be persisted.
type AllocationPlan struct {
	Allocations         []PlannedAllocation `json:"allocations"`
	UnallocatedQuantity int                 `json:"unallocated_quantity"`
	Feasible            bool                `json:"feasible"`
	OptimizationScore   float64             `json:"optimization_score"`
}

// AllocationEngine computes and validates how ordered quantities are split
// across destination locations. Stateless: every operation is pure
// arithmetic or issues one/two reads through the port.
type AllocationEngine struct {
	port RepositoryPort
}

func NewAllocationEngine(port RepositoryPort) *AllocationEngine {
	return &AllocationEngine{port: port}
}

// DistributeByPercentage splits totalQuantity across locations. Per-location
// quantities are always rounded DOWN before summation, which guarantees
// sum(allocated) <= totalQuantity regardless of rounding error, at the cost
// of leaving a remainder when percentages don't sum to 100 or rounding
// truncates.
func (e *AllocationEngine) DistributeByPercentage(totalQuantity int, percentages []LocationPercentage) (*DistributionResult, error) {
	if totalQuantity < 0 {
		return nil, NewValidationError("Total quantity must not be negative")
	}

	var sum float64
	for _, p := range percentages {
		if p.Percent < 0 {
			return nil, NewValidationError("Location percentage must not be negative")
		}
		sum += p.Percent
	}
	if sum > 100+percentEpsilon {
		return nil, NewValidationError("Total percentage (%s%%) exceeds 100%%", formatPercent(sum))
	}

	result := &DistributionResult{Distributions: []LocationDistribution{}}
	if totalQuantity == 0 || len(percentages) == 0 {
		return result, nil
	}

	var deviationSum float64
	for _, p := range percentages {
		allocated := int(math.Floor(float64(totalQuantity) * p.Percent / 100))
		achieved := float64(allocated) / float64(totalQuantity) * 100
		deviationSum += math.Abs(p.Percent - achieved)

		result.Distributions = append(result.Distributions, LocationDistribution{
			LocationID:        p.LocationID,
			AllocatedQuantity: allocated,
			Percentage:        round2(achieved),
		})
		result.TotalDistributed += allocated
	}
	result.RemainingQuantity = totalQuantity - result.TotalDistributed
	result.DistributionAccuracy = clampPercent(100 - deviationSum/float64(len(percentages)))
	return result, nil
}

// ValidateAllocationMath checks a candidate allocation against the line
// item's ordered quantity and its existing allocations. Business problems
// come back inside the MathCheck; the error return carries only repository
// failures.
func (e *AllocationEngine) ValidateAllocationMath(ctx context.Context, tenantID, lineItemID uuid.UUID, existing []model.Allocation, candidate AllocationCandidate) (*MathCheck, error) {
	item, err := e.port.GetLineItemByID(ctx, lineItemID, tenantID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return &MathCheck{Valid: false, Errors: []string{"PO item not found"}}, nil
	}

	existingSum := 0
	for _, a := range existing {
		existingSum += a.QuantityAllocated
	}

	check := &MathCheck{Errors: []string{}}
	if candidate.QuantityAllocated <= 0 {
		check.TotalAllocated = existingSum
		check.RemainingQuantity = clampNonNegative(item.QuantityOrdered - existingSum)
		check.Errors = append(check.Errors, "Allocation quantity must be greater than zero")
		return check, nil
	}

	check.TotalAllocated = existingSum + candidate.QuantityAllocated
	check.RemainingQuantity = clampNonNegative(item.QuantityOrdered - check.TotalAllocated)
	check.Valid = check.TotalAllocated <= item.QuantityOrdered
	if !check.Valid {
		check.OverAllocation = check.TotalAllocated - item.QuantityOrdered
		check.Errors = append(check.Errors,
			"Over-allocation detected: "+strconv.Itoa(check.OverAllocation)+" units exceed ordered quantity")
	}
	return check, nil
}

// CalculateOptimalAllocation applies a strategy to a set of line items and
// locations and returns the resulting plan. Strategy problems (percentages
// over 100%) make the plan infeasible rather than failing the call; only an
// unknown strategy variant is an error.
func (e *AllocationEngine) CalculateOptimalAllocation(lineItems []model.PurchaseOrderLineItem, locations []model.Location, strategy Strategy) (*AllocationPlan, error) {
	if len(lineItems) == 0 || len(locations) == 0 {
		return infeasiblePlan(0), nil
	}

	switch s := strategy.(type) {
	case ManualStrategy:
		// No computed distribution — everything stays unallocated for
		// per-allocation manual entry.
		unallocated := 0
		for _, item := range lineItems {
			unallocated += item.QuantityOrdered
		}
		return &AllocationPlan{
			Allocations:         []PlannedAllocation{},
			UnallocatedQuantity: unallocated,
			Feasible:            true,
		}, nil

	case PercentageStrategy:
		return e.planByPercentage(lineItems, locations, s)

	case FixedAmountStrategy:
		return e.planByFixedAmount(lineItems, locations, s)

	default:
		return nil, NewValidationError("Unknown allocation strategy")
	}
}

func (e *AllocationEngine) planByPercentage(lineItems []model.PurchaseOrderLineItem, locations []model.Location, s PercentageStrategy) (*AllocationPlan, error) {
	// Iterate locations in the caller-supplied order so the plan is
	// deterministic regardless of map iteration.
	percentages := make([]LocationPercentage, 0, len(locations))
	for _, loc := range locations {
		if pct, ok := s.LocationPercentages[loc.ID]; ok {
			percentages = append(percentages, LocationPercentage{LocationID: loc.ID, Percent: pct})
		}
	}

	plan := &AllocationPlan{Allocations: []PlannedAllocation{}, Feasible: true}
	var accuracySum float64
	totalOrdered, totalDistributed := 0, 0

	for _, item := range lineItems {
		res, err := e.DistributeByPercentage(item.QuantityOrdered, percentages)
		if err != nil {
			if IsValidation(err) {
				return infeasiblePlan(0), nil
			}
			return nil, err
		}
		for _, d := range res.Distributions {
			if d.AllocatedQuantity == 0 {
				continue
			}
			plan.Allocations = append(plan.Allocations, PlannedAllocation{
				LineItemID: item.ID,
				LocationID: d.LocationID,
				Quantity:   d.AllocatedQuantity,
				Percentage: d.Percentage,
			})
		}
		plan.UnallocatedQuantity += res.RemainingQuantity
		accuracySum += res.DistributionAccuracy
		totalOrdered += item.QuantityOrdered
		totalDistributed += res.TotalDistributed
	}

	plan.OptimizationScore = optimizationScore(accuracySum/float64(len(lineItems)), totalDistributed, totalOrdered)
	return plan, nil
}

func (e *AllocationEngine) planByFixedAmount(lineItems []model.PurchaseOrderLineItem, locations []model.Location, s FixedAmountStrategy) (*AllocationPlan, error) {
	plan := &AllocationPlan{Allocations: []PlannedAllocation{}, Feasible: true}
	totalOrdered, totalDistributed := 0, 0

	for _, item := range lineItems {
		amountSum := 0
		for _, loc := range locations {
			amount, ok := s.LocationAmounts[loc.ID]
			if !ok || amount <= 0 {
				continue
			}
			amountSum += amount
			plan.Allocations = append(plan.Allocations, PlannedAllocation{
				LineItemID: item.ID,
				LocationID: loc.ID,
				Quantity:   amount,
				Percentage: round2(float64(amount) / float64(item.QuantityOrdered) * 100),
			})
		}
		if amountSum > item.QuantityOrdered {
			plan.Feasible = false
		}
		plan.UnallocatedQuantity += clampNonNegative(item.QuantityOrdered - amountSum)
		totalOrdered += item.QuantityOrdered
		totalDistributed += amountSum
	}

	if !plan.Feasible {
		return infeasiblePlan(plan.UnallocatedQuantity), nil
	}
	// Fixed amounts hit their targets exactly, so accuracy contributes its
	// maximum and only the distributed fraction differentiates plans.
	plan.OptimizationScore = optimizationScore(100, totalDistributed, totalOrdered)
	return plan, nil
}

// CalculateUnallocatedQuantity reads the line item's ordered quantity and the
// tenant-scoped sum of its allocations, clamped so a historical
// over-allocation can never surface as a negative remainder.
func (e *AllocationEngine) CalculateUnallocatedQuantity(ctx context.Context, lineItemID, tenantID uuid.UUID) (int, error) {
	item, err := e.port.GetLineItemByID(ctx, lineItemID, tenantID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, NewNotFoundError("PO item not found")
	}
	allocated, err := e.port.SumAllocatedQuantity(ctx, lineItemID, tenantID)
	if err != nil {
		return 0, err
	}
	return clampNonNegative(item.QuantityOrdered - allocated), nil
}

// ValidateDistributionAccuracy scores how closely an actual distribution
// matches the requested percentages: 100 minus the average absolute
// percentage-point deviation over locations present in both, 0 when there is
// no overlap or the distribution is empty.
func ValidateDistributionAccuracy(requested []LocationPercentage, actual *DistributionResult) float64 {
	if actual == nil || len(actual.Distributions) == 0 {
		return 0
	}
	achieved := make(map[uuid.UUID]float64, len(actual.Distributions))
	for _, d := range actual.Distributions {
		achieved[d.LocationID] = d.Percentage
	}

	var deviationSum float64
	matched := 0
	for _, r := range requested {
		pct, ok := achieved[r.LocationID]
		if !ok {
			continue
		}
		deviationSum += math.Abs(r.Percent - pct)
		matched++
	}
	if matched == 0 {
		return 0
	}
	return clampPercent(100 - deviationSum/float64(matched))
}

// optimizationScore weights match quality against coverage: 60% distribution
// accuracy, 40% fraction of the ordered quantity actually distributed.
// Strictly increasing in both inputs; infeasible plans bypass it entirely.
func optimizationScore(avgAccuracy float64, distributed, ordered int) float64 {
	fraction := 0.0
	if ordered > 0 {
		fraction = float64(distributed) / float64(ordered)
	}
	return round2(0.6*avgAccuracy + 0.4*100*fraction)
}

func infeasiblePlan(unallocated int) *AllocationPlan {
	return &AllocationPlan{
		Allocations:         []PlannedAllocation{},
		UnallocatedQuantity: unallocated,
		Feasible:            false,
		OptimizationScore:   0,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return round2(v)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
