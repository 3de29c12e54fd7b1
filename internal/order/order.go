package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

const (
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodCardOnDelivery = "card_on_delivery"
	PaymentMethodOnline         = "online"
)

// Order is one purchase. Exactly one of CustomerID / the guest fields is
// populated. TotalPrice is final, after any points discount.
type Order struct {
	ID                 string          `json:"id"`
	OrderNumber        int             `json:"orderNumber"`
	CustomerID         *string         `json:"customerId,omitempty"`
	Status             Status          `json:"status"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	PointsEarned       int             `json:"pointsEarned"`
	PointsUsed         int             `json:"pointsUsed"`
	DeliveryType       string          `json:"deliveryType"`
	PaymentMethod      string          `json:"paymentMethod"`
	GuestEmail         *string         `json:"guestEmail,omitempty"`
	GuestFirstName     *string         `json:"guestFirstName,omitempty"`
	GuestLastName      *string         `json:"guestLastName,omitempty"`
	DeliveryAddress    string          `json:"deliveryAddress"`
	DeliveryCity       string          `json:"deliveryCity"`
	DeliveryPostalCode string          `json:"deliveryPostalCode"`
	DeliveryPhone      string          `json:"deliveryPhone"`
	Notes              *string         `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	Items              []Item          `json:"items"`
}

// Item is a line-item snapshot. PriceAtTime is frozen at order creation and
// never follows later catalog price changes.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
}

type Stats struct {
	TotalOrders   int             `json:"totalOrders"`
	TodayOrders   int             `json:"todayOrders"`
	PendingOrders int             `json:"pendingOrders"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
}
