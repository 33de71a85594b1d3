package domain

import "github.com/shopspring/decimal"

// Handoff describes a cart written to the checkout slot.
type Handoff struct {
	Key       string
	Redirect  string
	ItemCount int
	Total     decimal.Decimal
}

type QuoteLine struct {
	LineID    string
	ProductID string
	Name      string
	Color     string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Quote struct {
	Lines     []QuoteLine
	ItemCount int
	Total     decimal.Decimal
}
