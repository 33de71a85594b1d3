package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HandoffStore is the key-value slot the checkout page reads the cart from.
// Get returns ErrNoHandoff when the key holds nothing.
type HandoffStore interface {
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type CartReader interface {
	TotalItemCount() int
	TotalPrice() decimal.Decimal
	Serialize() ([]byte, error)
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID     string
	Name   string
	Colors []string
	Sizes  []string
}
