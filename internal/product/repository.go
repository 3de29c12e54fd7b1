package product

import "errors"

var ErrNotFound = errors.New("product not found")

// ListFilter narrows the menu listing. The zero value lists all available
// products in every category.
type ListFilter struct {
	Category           string
	IncludeUnavailable bool
}

type Repository interface {
	List(filter ListFilter) ([]Product, error)
	GetByID(id string) (Product, error)
	// ListAvailableByIDs returns only products that exist AND are currently
	// available. Callers compare result length against the requested ids to
	// detect unavailable items.
	ListAvailableByIDs(ids []string) ([]Product, error)
	Categories() ([]string, error)
	Create(p Product) (Product, error)
	Update(p Product) (Product, error)
	Delete(id string) error
}
