package customer

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("customer not found")
	ErrInsufficientPoints = errors.New("adjustment would make points balance negative")
)

type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(id string) (Customer, error)
	GetByUserID(userID string) (Customer, error)
	Create(c Customer) (Customer, error)
	List(filter ListFilter) ([]WithStats, int, error)
	Stats(monthStart time.Time) (Stats, error)
	// AdjustPoints mutates the balance and appends the matching ledger row in
	// one transaction, with the customer row locked for the duration.
	AdjustPoints(customerID string, amount int, reason string) (Customer, error)
}
