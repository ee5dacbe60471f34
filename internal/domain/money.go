package domain

import (
	"github.com/shopspring/decimal"
)

// Monetary scales. Amounts are carried at WorkingScale internally and only
// narrowed to DisplayScale at presentation/allocation boundaries.
const (
	WorkingScale int32 = 4
	DisplayScale int32 = 2
)

// RoundWorking rounds an amount to the working scale, half to even.
func RoundWorking(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(WorkingScale)
}

// RoundDisplay rounds an amount to the display scale, half to even.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(DisplayScale)
}

// ConvertAmount multiplies amount by rate at full precision and rounds the
// result to scale, half to even. The intermediate product is never truncated.
func ConvertAmount(amount, rate decimal.Decimal, scale int32) decimal.Decimal {
	return amount.Mul(rate).RoundBank(scale)
}

// EqualAtWorkingScale reports whether two amounts are equal once both are
// narrowed to the working scale.
func EqualAtWorkingScale(a, b decimal.Decimal) bool {
	return RoundWorking(a).Equal(RoundWorking(b))
}

// SmallestDisplayUnit is one unit at the display scale (0.01 for scale 2).
func SmallestDisplayUnit() decimal.Decimal {
	return decimal.New(1, -DisplayScale)
}
