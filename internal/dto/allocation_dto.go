package dto

// PreviewDistributionRequest asks for a percentage split of a quantity across
// locations without persisting anything.
type PreviewDistributionRequest struct {
	TotalQuantity int                      `json:"total_quantity" validate:"required,gt=0"`
	Percentages   []LocationPercentageItem `json:"percentages" validate:"required,min=1,dive"`
}

type LocationPercentageItem struct {
	LocationID string  `json:"location_id" validate:"required,uuid"`
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
}

type DistributionItemResponse struct {
	LocationID string  `json:"location_id"`
	Quantity   int     `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

type DistributionResponse struct {
	Distributions  []DistributionItemResponse `json:"distributions"`
	TotalAllocated int                        `json:"total_allocated"`
	Remainder      int                        `json:"remainder"`
}

// PlanAllocationRequest drives CalculateOptimalAllocation. Strategy selects
// which of the optional blocks applies.
type PlanAllocationRequest struct {
	LineItemID  string             `json:"line_item_id" validate:"required,uuid"`
	LocationIDs []string           `json:"location_ids" validate:"required,min=1,dive,uuid"`
	Strategy    string             `json:"strategy" validate:"required,oneof=MANUAL PERCENTAGE FIXED_AMOUNT"`
	Percentages map[string]float64 `json:"percentages,omitempty"`
	Amounts     map[string]int     `json:"amounts,omitempty"`
}

type PlannedAllocationResponse struct {
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

type AllocationPlanResponse struct {
	Feasible          bool                        `json:"feasible"`
	Allocations       []PlannedAllocationResponse `json:"allocations"`
	OptimizationScore float64                     `json:"optimization_score"`
	Reason            string                      `json:"reason,omitempty"`
}

type CreateAllocationRequest struct {
	LineItemID string `json:"line_item_id" validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required"`
}

type AllocationResponse struct {
	ID                string `json:"id"`
	LineItemID        string `json:"line_item_id"`
	LocationID        string `json:"location_id"`
	QuantityAllocated int    `json:"quantity_allocated"`
	QuantityReceived  int    `json:"quantity_received"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

type MathCheckResponse struct {
	Valid             bool     `json:"valid"`
	TotalAllocated    int      `json:"total_allocated"`
	RemainingQuantity int      `json:"remaining_quantity"`
	OverAllocation    int      `json:"over_allocation"`
	Errors            []string `json:"errors"`
}

type UnallocatedResponse struct {
	LineItemID          string `json:"line_item_id"`
	QuantityOrdered     int    `json:"quantity_ordered"`
	QuantityAllocated   int    `json:"quantity_allocated"`
	QuantityUnallocated int    `json:"quantity_unallocated"`
}
