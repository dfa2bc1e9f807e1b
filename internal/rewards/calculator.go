package rewards

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	tierOneThreshold = 50
	tierTwoThreshold = 100
	tierOnePoints    = 1
	tierTwoPoints    = 2
)

var (
	tierOne = decimal.NewFromInt(tierOneThreshold)
	tierTwo = decimal.NewFromInt(tierTwoThreshold)

	tierTwoRate = decimal.NewFromInt(tierTwoPoints)
	tierOneBand = decimal.NewFromInt((tierTwoThreshold - tierOneThreshold) * tierOnePoints)
	maxPoints   = decimal.NewFromInt(math.MaxInt)
)

// CalculatePoints returns the reward points earned by a single purchase.
//
// Every whole dollar spent above $100 earns 2 points and every whole dollar
// between $50 and $100 earns 1 point. Only the whole-dollar part of the excess
// over each threshold counts. A missing, zero or negative amount earns nothing.
// Results too large for an int saturate at math.MaxInt.
func CalculatePoints(amount decimal.NullDecimal) int {
	if !amount.Valid || !amount.Decimal.IsPositive() {
		return 0
	}

	switch a := amount.Decimal; {
	case a.GreaterThan(tierTwo):
		overHundred := a.Sub(tierTwo).Floor()
		return toPoints(overHundred.Mul(tierTwoRate).Add(tierOneBand))
	case a.GreaterThan(tierOne):
		overFifty := a.Sub(tierOne).Floor()
		return toPoints(overFifty)
	default:
		return 0
	}
}

func toPoints(points decimal.Decimal) int {
	if points.GreaterThanOrEqual(maxPoints) {
		return math.MaxInt
	}
	return int(points.IntPart())
}

// AddPoints adds two non-negative point values, saturating at math.MaxInt.
func AddPoints(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

// PointsFor is CalculatePoints for an amount that is known to be present.
func PointsFor(amount decimal.Decimal) int {
	return CalculatePoints(decimal.NewNullDecimal(amount))
}
