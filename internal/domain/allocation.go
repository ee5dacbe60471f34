package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Allocate splits total across weights using the largest remainder method.
// Each returned part is at the display scale and the parts sum exactly to
// total rounded to the display scale. Ties on fractional remainder are broken
// by input order, so allocation is deterministic.
func Allocate(total decimal.Decimal, weights []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidAllocationInput)
	}

	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total %s is negative", ErrInvalidAllocationInput, total)
	}

	weightSum := decimal.Zero
	for i, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("%w: weight[%d] %s is negative", ErrInvalidAllocationInput, i, w)
		}
		weightSum = weightSum.Add(w)
	}

	if weightSum.IsZero() {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidAllocationInput)
	}

	total = RoundDisplay(total)
	unit := SmallestDisplayUnit()

	parts := make([]decimal.Decimal, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	floored := decimal.Zero

	for i, w := range weights {
		ideal := total.Mul(w).Div(weightSum)
		part := ideal.RoundFloor(DisplayScale)
		parts[i] = part
		remainders[i] = ideal.Sub(part)
		floored = floored.Add(part)
	}

	// Distribute the shortfall one smallest unit at a time to the lines with
	// the largest fractional remainder. Stable sort keeps input order on ties.
	shortfall := total.Sub(floored)

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	for i := 0; shortfall.IsPositive(); i = (i + 1) % len(order) {
		idx := order[i]
		parts[idx] = parts[idx].Add(unit)
		shortfall = shortfall.Sub(unit)
	}

	return parts, nil
}

// AllocateEqual splits total into n equal lines, remainder-safe.
func AllocateEqual(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: line count %d", ErrInvalidAllocationInput, n)
	}

	weights := make([]decimal.Decimal, n)
	for i := range weights {
		weights[i] = decimal.New(1, 0)
	}

	return Allocate(total, weights)
}
