package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	LineID    LineID
	ProductID string
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	Color     string
	Size      string
	Quantity  int
}

func (it LineItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Equal compares prices by value, so 550 and 550.00 are the same price.
func (it LineItem) Equal(o LineItem) bool {
	return it.LineID == o.LineID &&
		it.ProductID == o.ProductID &&
		it.Name == o.Name &&
		it.Price.Equal(o.Price) &&
		it.ImageURL == o.ImageURL &&
		it.Color == o.Color &&
		it.Size == o.Size &&
		it.Quantity == o.Quantity
}

// Cart keeps lines in first-add order with at most one line per LineID.
// The zero value is an empty cart.
type Cart struct {
	items []LineItem
	index map[LineID]int
}

// Add appends item, or bumps the quantity of the existing line with the same
// LineID by item.Quantity. It reports whether a new line was created.
func (c *Cart) Add(item LineItem) bool {
	if c.index == nil {
		c.index = make(map[LineID]int)
	}
	if idx, ok := c.index[item.LineID]; ok {
		c.items[idx].Quantity += item.Quantity
		return false
	}
	c.index[item.LineID] = len(c.items)
	c.items = append(c.items, item)
	return true
}

func (c *Cart) Remove(id LineID) bool {
	idx, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	delete(c.index, id)
	for i := idx; i < len(c.items); i++ {
		c.index[c.items[i].LineID] = i
	}
	return true
}

func (c *Cart) Get(id LineID) (LineItem, bool) {
	idx, ok := c.index[id]
	if !ok {
		return LineItem{}, false
	}
	return c.items[idx], true
}

func (c *Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.items = nil
	c.index = nil
}
