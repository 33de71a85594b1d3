package httpx

import "github.com/dwikikusuma/storefront/internal/storefront"

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type CheckoutResponse struct {
	Key      string          `json:"key"`
	Redirect string          `json:"redirect"`
	View     storefront.View `json:"view"`
}

type QuoteLineResponse struct {
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type QuoteResponse struct {
	Lines     []QuoteLineResponse `json:"lines"`
	ItemCount int                 `json:"itemCount"`
	Total     string              `json:"total"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message,omitempty"`
	View    *storefront.View `json:"view,omitempty"`
}
