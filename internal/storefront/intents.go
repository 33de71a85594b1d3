package storefront

import cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"

// Intent is a user action forwarded by the presentation layer.
type Intent interface {
	intent()
}

// FilterSelected narrows the grid to one category. An empty category shows
// every product.
type FilterSelected struct {
	Category string
}

type ProductOpened struct {
	ProductID string
}

// VariantAddToCart adds one unit of a variant. Empty Color or Size fall back
// to the product's default variant.
type VariantAddToCart struct {
	ProductID string
	Color     string
	Size      string
}

type ItemRemoved struct {
	LineID cartdomain.LineID
}

type CartOpened struct{}

type ModalsClosed struct{}

type CheckoutRequested struct{}

func (FilterSelected) intent()    {}
func (ProductOpened) intent()     {}
func (VariantAddToCart) intent()  {}
func (ItemRemoved) intent()       {}
func (CartOpened) intent()        {}
func (ModalsClosed) intent()      {}
func (CheckoutRequested) intent() {}
