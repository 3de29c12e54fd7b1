package order

import (
	"github.com/shopspring/decimal"

	"github.com/primavera/pizzeria-backend/internal/loyalty"
)

// ClampRedemption caps a redemption request to what the customer actually
// holds. Never negative.
func ClampRedemption(requested, balance int) int {
	if requested < 0 {
		return 0
	}
	if requested > balance {
		return balance
	}
	return requested
}

// Discount converts redeemed points into currency: 100 points = 1 unit.
func Discount(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Div(decimal.NewFromInt(loyalty.RedemptionRate))
}

// FinalPrice applies the points discount to the subtotal, floored at zero.
func FinalPrice(subtotal decimal.Decimal, pointsUsed int) decimal.Decimal {
	price := subtotal.Sub(Discount(pointsUsed))
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// EarnedPoints is floor(total * 10): 10 points per currency unit spent.
func EarnedPoints(total decimal.Decimal) int {
	return int(total.Mul(decimal.NewFromInt(loyalty.PointsPerUnit)).IntPart())
}
