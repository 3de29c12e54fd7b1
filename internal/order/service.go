package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primavera/pizzeria-backend/internal/customer"
	"github.com/primavera/pizzeria-backend/internal/product"
	"github.com/primavera/pizzeria-backend/internal/user"
)

type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateInput struct {
	Items              []ItemInput `json:"items"`
	DeliveryType       string      `json:"deliveryType"`
	PaymentMethod      string      `json:"paymentMethod"`
	DeliveryAddress    string      `json:"deliveryAddress"`
	DeliveryCity       string      `json:"deliveryCity"`
	DeliveryPostalCode string      `json:"deliveryPostalCode"`
	DeliveryPhone      string      `json:"deliveryPhone"`
	Notes              *string     `json:"notes"`
	UsePoints          int         `json:"usePoints"`
	GuestEmail         string      `json:"guestEmail"`
	GuestFirstName     string      `json:"guestFirstName"`
	GuestLastName      string      `json:"guestLastName"`
}

type Page struct {
	Orders     []Order `json:"orders"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// Service runs the ordering workflow: identity resolution, pricing,
// persistence and fulfilment transitions.
type Service struct {
	repo      Repository
	customers customer.ServiceInterface
	products  product.ServiceInterface
	users     user.ServiceInterface
}

func NewService(repo Repository, customers customer.ServiceInterface, products product.ServiceInterface, users user.ServiceInterface) *Service {
	return &Service{repo: repo, customers: customers, products: products, users: users}
}

// Create places an order for an authenticated customer (userID non-empty) or
// a guest.
func (s *Service) Create(userID string, input CreateInput) (Order, error) {
	if err := validateInput(input); err != nil {
		return Order{}, err
	}

	// identity resolution: bound customer or validated guest
	var cust *customer.Customer
	if userID != "" {
		u, err := s.users.GetByID(userID)
		if err != nil {
			return Order{}, err
		}
		resolved, err := s.customers.ResolveOrCreate(userID, u.Name, input.DeliveryPhone)
		if err != nil {
			return Order{}, err
		}
		cust = &resolved
	} else if input.GuestEmail == "" || input.GuestFirstName == "" {
		return Order{}, ErrGuestInfoRequired
	}

	// all-or-nothing availability check
	ids := uniqueProductIDs(input.Items)
	products, err := s.products.ListAvailableByIDs(ids)
	if err != nil {
		return Order{}, err
	}
	if len(products) != len(ids) {
		return Order{}, ErrProductUnavailable
	}

	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// snapshot prices; later catalog changes never touch this order
	subtotal := decimal.Zero
	items := make([]Item, 0, len(input.Items))
	for _, in := range input.Items {
		p := byID[in.ProductID]
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(in.Quantity))))
		items = append(items, Item{
			ID:          uuid.NewString(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			PriceAtTime: p.Price,
		})
	}

	requestedPoints := 0
	if cust != nil {
		requestedPoints = input.UsePoints
	}

	now := time.Now().UTC()
	ord := Order{
		ID:                 uuid.NewString(),
		Status:             StatusPending,
		DeliveryType:       input.DeliveryType,
		PaymentMethod:      input.PaymentMethod,
		DeliveryAddress:    input.DeliveryAddress,
		DeliveryCity:       input.DeliveryCity,
		DeliveryPostalCode: input.DeliveryPostalCode,
		DeliveryPhone:      input.DeliveryPhone,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
		Items:              items,
	}

	if cust != nil {
		ord.CustomerID = &cust.ID
		// fall back to the saved profile for delivery details left blank
		if ord.DeliveryAddress == "" && cust.DeliveryAddress != nil {
			ord.DeliveryAddress = *cust.DeliveryAddress
		}
		if ord.DeliveryCity == "" && cust.City != nil {
			ord.DeliveryCity = *cust.City
		}
		if ord.DeliveryPostalCode == "" && cust.PostalCode != nil {
			ord.DeliveryPostalCode = *cust.PostalCode
		}
	} else {
		ord.GuestEmail = &input.GuestEmail
		ord.GuestFirstName = &input.GuestFirstName
		if input.GuestLastName != "" {
			ord.GuestLastName = &input.GuestLastName
		}
	}

	if ord.DeliveryType == DeliveryTypeDelivery && (ord.DeliveryAddress == "" || ord.DeliveryCity == "") {
		return Order{}, ErrAddressRequired
	}

	return s.repo.Create(ord, subtotal, requestedPoints)
}

// UpdateStatus moves an order through the fulfilment state machine. The first
// transition into delivered credits the precomputed earned points; re-applying
// delivered (or leaving any terminal state) is rejected, so the credit can
// never fire twice.
func (s *Service) UpdateStatus(id string, statusStr string) (Order, error) {
	target, err := ParseStatus(statusStr)
	if err != nil {
		return Order{}, err
	}

	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}

	if !CanTransition(ord.Status, target) {
		return Order{}, ErrInvalidTransition
	}

	if target == StatusDelivered {
		return s.repo.DeliverAndCredit(ord)
	}
	return s.repo.UpdateStatus(id, target)
}

// MyOrders pages the authenticated user's order history, newest first. A user
// without a loyalty profile simply has no orders yet.
func (s *Service) MyOrders(userID string, limit int, cursor string) (Page, error) {
	cust, err := s.customers.GetByUserID(userID)
	if err != nil {
		if err == customer.ErrNotFound {
			return Page{Orders: []Order{}}, nil
		}
		return Page{}, err
	}

	orders, next, err := s.repo.ListByCustomer(cust.ID, normalizeLimit(limit, 10), cursor)
	if err != nil {
		return Page{}, err
	}
	return Page{Orders: orders, NextCursor: next}, nil
}

// GetForUser returns one order, scoped to the caller: orders of other
// customers are reported as not found.
func (s *Service) GetForUser(userID, orderID string) (Order, error) {
	cust, err := s.customers.GetByUserID(userID)
	if err != nil {
		if err == customer.ErrNotFound {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.CustomerID == nil || *ord.CustomerID != cust.ID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) ListAll(statusStr string, limit int, cursor string) (Page, error) {
	var status Status
	if statusStr != "" {
		parsed, err := ParseStatus(statusStr)
		if err != nil {
			return Page{}, err
		}
		status = parsed
	}

	orders, next, err := s.repo.ListAll(status, normalizeLimit(limit, 50), cursor)
	if err != nil {
		return Page{}, err
	}
	return Page{Orders: orders, NextCursor: next}, nil
}

func (s *Service) ListActive() ([]Order, error) {
	return s.repo.ListActive()
}

func (s *Service) Stats() (Stats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Stats(dayStart)
}

func validateInput(input CreateInput) error {
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if input.DeliveryPhone == "" {
		return ErrPhoneRequired
	}
	if input.DeliveryType != DeliveryTypeDelivery && input.DeliveryType != DeliveryTypePickup {
		return ErrInvalidDelivery
	}
	switch input.PaymentMethod {
	case PaymentMethodCashOnDelivery, PaymentMethodCardOnDelivery, PaymentMethodOnline:
	default:
		return ErrInvalidPayment
	}
	return nil
}

func uniqueProductIDs(items []ItemInput) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 100 {
		return fallback
	}
	return limit
}
