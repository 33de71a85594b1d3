package app

import (
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// Snapshot is a settled copy of the cart handed to subscribers after each
// mutation. Version grows by one per mutation, so a subscriber that sees
// snapshots out of order can keep the newest.
type Snapshot struct {
	Version        uint64
	Items          []domain.LineItem
	TotalItemCount int
	TotalPrice     decimal.Decimal
}

type Listener func(Snapshot)
