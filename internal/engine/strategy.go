package engine

import "github.com/google/uuid"

// Strategy is a closed tagged union of allocation strategies. Each variant
// carries a strongly-typed payload and is resolved by exhaustive type
// switching — adding a variant without handling it in
// CalculateOptimalAllocation is a compile-visible omission, not a silent
// runtime fallthrough.
type Strategy interface {
	isStrategy()
}

// ManualStrategy performs no computed distribution — allocations are entered
// one by one through ValidateAllocationMath.
type ManualStrategy struct{}

// PercentageStrategy splits each line item across locations by percentage.
type PercentageStrategy struct {
	LocationPercentages map[uuid.UUID]float64
}

// FixedAmountStrategy allocates exact integer amounts per location.
type FixedAmountStrategy struct {
	LocationAmounts map[uuid.UUID]int
}

func (ManualStrategy) isStrategy()      {}
func (PercentageStrategy) isStrategy()  {}
func (FixedAmountStrategy) isStrategy() {}
