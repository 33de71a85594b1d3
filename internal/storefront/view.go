package storefront

import (
	"github.com/shopspring/decimal"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
)

type View struct {
	Filter     string         `json:"filter,omitempty"`
	ShowAll    bool           `json:"showAll"`
	Categories []string       `json:"categories"`
	Grid       []Card         `json:"grid"`
	Modal      string         `json:"modal"`
	Product    *ProductDetail `json:"product,omitempty"`
	Cart       *CartView      `json:"cart,omitempty"`
	CartCount  int            `json:"cartCount"`
	Toast      string         `json:"toast,omitempty"`
	Notice     string         `json:"notice,omitempty"`
	Redirect   string         `json:"redirect,omitempty"`
}

type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Price    string `json:"price"`
}

type ColorOption struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
	// Outlined swatches need a border to be visible on a white page.
	Outlined bool `json:"outlined,omitempty"`
}

type SizeOption struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type ProductDetail struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ImageURL    string        `json:"imageUrl"`
	Price       string        `json:"price"`
	Colors      []ColorOption `json:"colors"`
	Sizes       []SizeOption  `json:"sizes"`
}

type CartLine struct {
	LineID   string `json:"lineId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type CartView struct {
	Lines        []CartLine `json:"lines"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
	Total        string     `json:"total"`
}

// Money formats amounts in the store's single currency.
type Money struct {
	Currency string
}

func (m Money) Format(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + m.Currency
}

// Render is a pure function of its inputs.
func Render(st State, cat *catalogapp.Service, cart cartapp.Snapshot, money Money) View {
	v := View{
		Filter:     st.Filter,
		ShowAll:    st.Filter != "",
		Categories: cat.Categories(),
		Grid:       []Card{},
		Modal:      st.Modal.String(),
		CartCount:  cart.TotalItemCount,
		Notice:     st.Notice,
		Redirect:   st.Redirect,
	}
	if st.Toast {
		v.Toast = ToastMessage
	}

	for _, p := range cat.ListByCategory(st.Filter) {
		v.Grid = append(v.Grid, Card{
			ID:       p.ID,
			Name:     p.Name,
			ImageURL: p.ImageURL,
			Price:    money.Format(p.Price),
		})
	}

	switch st.Modal {
	case ModalProduct:
		if p, err := cat.FindByID(st.ProductID); err == nil {
			v.Product = renderProduct(p, money)
		}
	case ModalCart:
		v.Cart = renderCart(cart, money)
	}

	return v
}

func renderProduct(p catalog.Product, money Money) *ProductDetail {
	def := p.DefaultVariant()
	d := &ProductDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       money.Format(p.Price),
		Colors:      make([]ColorOption, 0, len(p.Colors)),
		Sizes:       make([]SizeOption, 0, len(p.Sizes)),
	}
	for _, c := range p.Colors {
		d.Colors = append(d.Colors, ColorOption{
			Name:     c.Name,
			Value:    c.Value,
			Selected: c.Name == def.Color,
			Outlined: c.Name == "white",
		})
	}
	for _, s := range p.Sizes {
		d.Sizes = append(d.Sizes, SizeOption{Label: s, Selected: s == def.Size})
	}
	return d
}

func renderCart(cart cartapp.Snapshot, money Money) *CartView {
	cv := &CartView{
		Lines: make([]CartLine, 0, len(cart.Items)),
		Total: money.Format(cart.TotalPrice),
	}
	if len(cart.Items) == 0 {
		cv.EmptyMessage = EmptyCartMessage
	}
	for _, it := range cart.Items {
		cv.Lines = append(cv.Lines, CartLine{
			LineID:   it.LineID.String(),
			Name:     it.Name,
			ImageURL: it.ImageURL,
			Color:    it.Color,
			Size:     it.Size,
			Quantity: it.Quantity,
			Subtotal: money.Format(it.Subtotal()),
		})
	}
	return cv
}
