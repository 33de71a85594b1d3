package domain

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// lineRecord is the persisted layout read by the checkout page.
type lineRecord struct {
	LineID    string      `json:"lineId"`
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	ImageURL  string      `json:"imageUrl"`
	Color     string      `json:"color"`
	Size      string      `json:"size"`
	Quantity  int         `json:"quantity"`
}

// EncodeItems writes items as a JSON array, keeping their order.
func EncodeItems(items []LineItem) ([]byte, error) {
	records := make([]lineRecord, 0, len(items))
	for _, it := range items {
		records = append(records, lineRecord{
			LineID:    it.LineID.String(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     json.Number(it.Price.String()),
			ImageURL:  it.ImageURL,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}

	b, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart")
	}
	return b, nil
}

// DecodeItems reads a handoff written by EncodeItems. It rejects input that
// no cart could have produced: repeated line ids, mismatched ids, quantities
// below one and negative prices.
func DecodeItems(data []byte) ([]LineItem, error) {
	var records []lineRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	items := make([]LineItem, 0, len(records))
	seen := make(map[LineID]struct{}, len(records))
	for i, r := range records {
		id, err := ParseLineID(r.LineID)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i)
		}
		if id != ResolveLineID(r.ProductID, r.Color, r.Size) {
			return nil, errors.Wrapf(ErrInvalidLineID, "line %d: %q does not match its variant", i, r.LineID)
		}
		if _, dup := seen[id]; dup {
			return nil, errors.Wrapf(ErrInvalidLineID, "line %d: %q repeated", i, r.LineID)
		}
		seen[id] = struct{}{}
		if r.Quantity < 1 {
			return nil, errors.Wrapf(ErrInvalidQuantity, "line %d", i)
		}
		price, err := decimal.NewFromString(r.Price.String())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: price", i)
		}
		if price.IsNegative() {
			return nil, errors.Wrapf(ErrInvalidPrice, "line %d", i)
		}

		items = append(items, LineItem{
			LineID:    id,
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     price,
			ImageURL:  r.ImageURL,
			Color:     r.Color,
			Size:      r.Size,
			Quantity:  r.Quantity,
		})
	}
	return items, nil
}
