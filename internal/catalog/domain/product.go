package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Color struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Colors      []Color
	Sizes       []string
}

// Variant is a concrete (color, size) pair of a product.
type Variant struct {
	Color string
	Size  string
}

func (p Product) HasColor(name string) bool {
	return slices.ContainsFunc(p.Colors, func(c Color) bool { return c.Name == name })
}

func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// Offers reports whether v is one of the product's variants.
func (p Product) Offers(v Variant) bool {
	return p.HasColor(v.Color) && p.HasSize(v.Size)
}

// DefaultVariant is the pre-selected variant: first color, first size.
// The zero Variant is returned for a product without colors or sizes.
func (p Product) DefaultVariant() Variant {
	var v Variant
	if len(p.Colors) > 0 {
		v.Color = p.Colors[0].Name
	}
	if len(p.Sizes) > 0 {
		v.Size = p.Sizes[0]
	}
	return v
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.Colors = slices.Clone(p.Colors)
	p.Sizes = slices.Clone(p.Sizes)
	return p
}
