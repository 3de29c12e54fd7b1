package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a menu item. Prices are exact decimals, never floats, so order
// totals cannot drift.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Ingredients []string        `json:"ingredients"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	SortOrder   int             `json:"sortOrder"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

const DefaultCategory = "pizza"
