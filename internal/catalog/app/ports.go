package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// ProductSource yields the full catalog once, at process start.
type ProductSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
}
