package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerbook/internal/domain"
)

func TestAllocateEqual_ThreeWay(t *testing.T) {
	total := decimal.RequireFromString("100.00")

	parts, err := domain.AllocateEqual(total, 3)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	// Largest remainder: first line absorbs the leftover cent.
	assert.True(t, parts[0].Equal(decimal.RequireFromString("33.34")), "parts[0] = %s", parts[0])
	assert.True(t, parts[1].Equal(decimal.RequireFromString("33.33")), "parts[1] = %s", parts[1])
	assert.True(t, parts[2].Equal(decimal.RequireFromString("33.33")), "parts[2] = %s", parts[2])

	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(total), "sum = %s", sum)
}

func TestAllocate_SumsExactly(t *testing.T) {
	totals := []string{"0.01", "0.10", "1.00", "99.99", "100.00", "12345.67", "0.00"}

	for _, ts := range totals {
		total := decimal.RequireFromString(ts)

		for n := 1; n <= 1000; n *= 10 {
			t.Run(fmt.Sprintf("total=%s_n=%d", ts, n), func(t *testing.T) {
				parts, err := domain.AllocateEqual(total, n)
				require.NoError(t, err)

				sum := decimal.Zero
				for _, p := range parts {
					sum = sum.Add(p)
				}
				assert.True(t, sum.Equal(total), "n=%d sum=%s total=%s", n, sum, total)
			})
		}
	}
}

func TestAllocate_WeightedSumsExactly(t *testing.T) {
	total := decimal.RequireFromString("200.00")
	weights := []decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("2"),
		decimal.RequireFromString("4"),
	}

	parts, err := domain.Allocate(total, weights)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(total), "sum = %s", sum)

	// Heavier weight, larger part.
	assert.True(t, parts[2].GreaterThan(parts[1]))
	assert.True(t, parts[1].GreaterThan(parts[0]))
}

func TestAllocate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		weights []string
	}{
		{"negative total", "-10.00", []string{"1", "1"}},
		{"no weights", "10.00", nil},
		{"negative weight", "10.00", []string{"1", "-1"}},
		{"zero weight sum", "10.00", []string{"0", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := make([]decimal.Decimal, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = decimal.RequireFromString(w)
			}

			_, err := domain.Allocate(decimal.RequireFromString(tt.total), weights)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidAllocationInput), "got %v", err)
		})
	}
}

func TestAllocate_TieBreakStable(t *testing.T) {
	// 0.01 across two equal weights: exactly one line gets the cent, and it
	// must be the first by input order.
	parts, err := domain.AllocateEqual(decimal.RequireFromString("0.01"), 2)
	require.NoError(t, err)

	assert.True(t, parts[0].Equal(domain.SmallestDisplayUnit()), "parts[0] = %s", parts[0])
	assert.True(t, parts[1].IsZero(), "parts[1] = %s", parts[1])
}
