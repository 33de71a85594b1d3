package adapter

import (
	"context"

	"github.com/go-faster/errors"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (checkoutapp.Product, error) {
	p, err := r.svc.FindByID(productID)
	if errors.Is(err, catalogapp.ErrNotFound) {
		return checkoutapp.Product{}, errors.Wrapf(checkoutapp.ErrNotFound, "%q", productID)
	}
	if err != nil {
		return checkoutapp.Product{}, err
	}

	colors := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		colors = append(colors, c.Name)
	}

	return checkoutapp.Product{
		ID:     p.ID,
		Name:   p.Name,
		Colors: colors,
		Sizes:  p.Sizes,
	}, nil
}
