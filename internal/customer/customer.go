package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a loyalty-program member, optionally linked 1:1 to a user
// account. Guest orders never create one.
type Customer struct {
	ID              string    `json:"id"`
	UserID          *string   `json:"userId,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	PhoneNumber     string    `json:"phoneNumber"`
	DeliveryAddress *string   `json:"deliveryAddress,omitempty"`
	City            *string   `json:"city,omitempty"`
	PostalCode      *string   `json:"postalCode,omitempty"`
	PointsBalance   int       `json:"pointsBalance"`
	CreatedAt       time.Time `json:"createdAt"`
}

// WithStats is the admin listing shape: the customer plus aggregates over
// their orders.
type WithStats struct {
	Customer
	Email      *string         `json:"email,omitempty"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	OrderCount int             `json:"orderCount"`
}

// TopSpender is one row of the admin stats summary.
type TopSpender struct {
	ID         string          `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

type Stats struct {
	TotalCustomers     int          `json:"totalCustomers"`
	CustomersThisMonth int          `json:"customersThisMonth"`
	TopSpenders        []TopSpender `json:"topSpenders"`
}
