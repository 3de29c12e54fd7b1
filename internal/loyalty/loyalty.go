package loyalty

import "time"

// Program constants: customers earn PointsPerUnit points per currency unit
// spent, and RedemptionRate points buy one currency unit of discount.
const (
	PointsPerUnit  = 10
	RedemptionRate = 100
)

// PointsTransaction is one append-only ledger row. The sum of a customer's
// rows always equals their stored balance because every balance mutation
// writes its row in the same transaction.
type PointsTransaction struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	OrderID    *string   `json:"orderId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Tier thresholds, derived from the balance and never stored.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

func Tier(points int) string {
	switch {
	case points >= 5000:
		return TierPlatinum
	case points >= 1500:
		return TierGold
	case points >= 500:
		return TierSilver
	default:
		return TierBronze
	}
}

// PointsToNextTier returns nil at the top tier.
func PointsToNextTier(points int) *int {
	var remaining int
	switch {
	case points >= 5000:
		return nil
	case points >= 1500:
		remaining = 5000 - points
	case points >= 500:
		remaining = 1500 - points
	default:
		remaining = 500 - points
	}
	return &remaining
}
