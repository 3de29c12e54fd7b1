package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	GetByID(id string) (Customer, error)
	GetByUserID(userID string) (Customer, error)
	ResolveOrCreate(userID, displayName, phone string) (Customer, error)
	List(filter ListFilter) ([]WithStats, int, error)
	Stats() (Stats, error)
	AdjustPoints(customerID string, amount int, reason string) (Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id string) (Customer, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByUserID(userID string) (Customer, error) {
	return s.repo.GetByUserID(userID)
}

// ResolveOrCreate returns the customer linked to the given account, creating
// one on first order. The account display name is split into first/last on a
// best-effort basis; the phone comes from the checkout form.
func (s *Service) ResolveOrCreate(userID, displayName, phone string) (Customer, error) {
	existing, err := s.repo.GetByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return Customer{}, err
	}

	first, last := splitName(displayName)
	return s.repo.Create(Customer{
		ID:          uuid.NewString(),
		UserID:      &userID,
		FirstName:   first,
		LastName:    last,
		PhoneNumber: phone,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *Service) List(filter ListFilter) ([]WithStats, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(filter)
}

func (s *Service) Stats() (Stats, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.repo.Stats(monthStart)
}

func (s *Service) AdjustPoints(customerID string, amount int, reason string) (Customer, error) {
	return s.repo.AdjustPoints(customerID, amount, reason)
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
