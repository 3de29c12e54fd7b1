package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price must be positive")

type ServiceInterface interface {
	List(filter ListFilter) ([]Product, error)
	GetByID(id string) (Product, error)
	ListAvailableByIDs(ids []string) ([]Product, error)
	Categories() ([]string, error)
	Create(p Product) (Product, error)
	Update(id string, update ProductUpdate) (Product, error)
	ToggleAvailability(id string) (Product, error)
	Delete(id string) error
}

// ProductUpdate carries a partial admin edit; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Ingredients *[]string        `json:"ingredients,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Available   *bool            `json:"available,omitempty"`
	SortOrder   *int             `json:"sortOrder,omitempty"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(filter ListFilter) ([]Product, error) {
	return s.repo.List(filter)
}

func (s *Service) GetByID(id string) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAvailableByIDs(ids []string) ([]Product, error) {
	return s.repo.ListAvailableByIDs(ids)
}

func (s *Service) Categories() ([]string, error) {
	return s.repo.Categories()
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, errors.New("name is required")
	}
	if !p.Price.IsPositive() {
		return Product{}, ErrInvalidPrice
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(p)
}

func (s *Service) Update(id string, update ProductUpdate) (Product, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Ingredients != nil {
		existing.Ingredients = *update.Ingredients
	}
	if update.Price != nil {
		if !update.Price.IsPositive() {
			return Product{}, ErrInvalidPrice
		}
		existing.Price = *update.Price
	}
	if update.ImageURL != nil {
		existing.ImageURL = update.ImageURL
	}
	if update.Category != nil {
		existing.Category = *update.Category
	}
	if update.Available != nil {
		existing.Available = *update.Available
	}
	if update.SortOrder != nil {
		existing.SortOrder = *update.SortOrder
	}
	existing.UpdatedAt = time.Now().UTC()

	return s.repo.Update(existing)
}

func (s *Service) ToggleAvailability(id string) (Product, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	existing.Available = !existing.Available
	existing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(existing)
}

func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}
