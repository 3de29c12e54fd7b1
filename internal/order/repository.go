package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrAddressRequired    = errors.New("delivery address is required for delivery orders")
	ErrGuestInfoRequired  = errors.New("guest checkout requires email and first name")
	ErrProductUnavailable = errors.New("some products are not available")
	ErrInvalidDelivery    = errors.New("unknown delivery type")
	ErrInvalidPayment     = errors.New("unknown payment method")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
)

type Repository interface {
	// Create materialises the order atomically. The passed order carries its
	// priced items; the repository re-reads the customer balance under a row
	// lock, clamps requestedPoints against it, derives the final price and
	// earned points, and writes the order, its items and (when points were
	// redeemed) the balance debit plus its ledger row in one transaction.
	Create(ord Order, subtotal decimal.Decimal, requestedPoints int) (Order, error)
	GetByID(id string) (Order, error)
	ListByCustomer(customerID string, limit int, cursor string) ([]Order, string, error)
	// ListAll pages every order, optionally filtered by status ("" = all).
	ListAll(status Status, limit int, cursor string) ([]Order, string, error)
	ListActive() ([]Order, error)
	Stats(dayStart time.Time) (Stats, error)
	UpdateStatus(id string, status Status) (Order, error)
	// DeliverAndCredit writes the delivered status and, if the order carries
	// earned points for a bound customer, credits them and appends the ledger
	// row, all in one transaction.
	DeliverAndCredit(ord Order) (Order, error)
}
