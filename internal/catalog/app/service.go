package app

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrDuplicateID  = errors.New("duplicate product id")
)

// Service is the read-only catalog. It is safe for concurrent use since
// nothing mutates it after construction.
type Service struct {
	products []domain.Product
	byID     map[string]int
}

func NewService(products []domain.Product) (*Service, error) {
	s := &Service{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if err := validate(p); err != nil {
			return nil, errors.Wrapf(err, "product %q", p.ID)
		}
		if _, ok := s.byID[p.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicateID, "product %q", p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p.Clone())
	}

	return s, nil
}

// Load builds the catalog from src.
func Load(ctx context.Context, src ProductSource) (*Service, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return NewService(products)
}

func validate(p domain.Product) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return ErrInvalidInput
	}
	if p.Price.IsNegative() {
		return errors.Wrap(ErrInvalidInput, "negative price")
	}
	if len(p.Colors) == 0 || len(p.Sizes) == 0 {
		return errors.Wrap(ErrInvalidInput, "product must offer at least one color and one size")
	}
	return nil
}

func (s *Service) ListAll() []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out
}

func (s *Service) FindByID(id string) (domain.Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return s.products[idx].Clone(), nil
}

// ListByCategory keeps catalog order. An empty category lists everything.
func (s *Service) ListByCategory(category string) []domain.Product {
	if category == "" {
		return s.ListAll()
	}

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (s *Service) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func (s *Service) Len() int {
	return len(s.products)
}
