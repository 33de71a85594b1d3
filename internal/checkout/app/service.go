package app

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoHandoff      = errors.New("no cart handed off")
	ErrNotFound       = errors.New("product not found")
	ErrInvalidVariant = errors.New("variant not offered by product")
)

type Options struct {
	Redirect      string
	TTL           time.Duration
	MaxConcurrent int
}

type Service struct {
	Slot    HandoffStore
	Catalog CatalogReader

	redirect      string
	ttl           time.Duration
	maxConcurrent int
	log           *slog.Logger
}

func NewService(slot HandoffStore, catalog CatalogReader, opts Options, log *slog.Logger) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	if opts.Redirect == "" {
		opts.Redirect = "checkout.html"
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		Slot:          slot,
		Catalog:       catalog,
		redirect:      opts.Redirect,
		ttl:           opts.TTL,
		maxConcurrent: opts.MaxConcurrent,
		log:           log,
	}
}

// Checkout writes the serialized cart to key. An empty cart is rejected
// before anything is written.
func (s *Service) Checkout(ctx context.Context, cart CartReader, key string) (domain.Handoff, error) {
	count := cart.TotalItemCount()
	if count == 0 {
		return domain.Handoff{}, ErrEmptyCart
	}

	data, err := cart.Serialize()
	if err != nil {
		return domain.Handoff{}, errors.Wrap(err, "serialize cart")
	}

	if err := s.Slot.Put(ctx, key, data, s.ttl); err != nil {
		return domain.Handoff{}, errors.Wrap(err, "write handoff")
	}

	h := domain.Handoff{
		Key:       key,
		Redirect:  s.redirect,
		ItemCount: count,
		Total:     cart.TotalPrice(),
	}
	s.log.InfoContext(ctx, "cart handed off",
		slog.String("key", key),
		slog.Int("items", h.ItemCount),
		slog.String("total", h.Total.StringFixed(2)),
	)
	return h, nil
}

// Load reads back the lines stored under key.
func (s *Service) Load(ctx context.Context, key string) ([]cartdomain.LineItem, error) {
	data, err := s.Slot.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return cartdomain.DecodeItems(data)
}

// Quote prices the handed-off lines at their snapshot price after checking
// each line still refers to a product and variant the catalog offers.
func (s *Service) Quote(ctx context.Context, key string) (domain.Quote, error) {
	items, err := s.Load(ctx, key)
	if err != nil {
		return domain.Quote{}, err
	}
	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]

			product, err := s.Catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return errors.Wrapf(err, "line %s", it.LineID)
			}
			if !slices.Contains(product.Colors, it.Color) || !slices.Contains(product.Sizes, it.Size) {
				return errors.Wrapf(ErrInvalidVariant, "line %s", it.LineID)
			}

			lines[idx] = domain.QuoteLine{
				LineID:    it.LineID.String(),
				ProductID: it.ProductID,
				Name:      it.Name,
				Color:     it.Color,
				Size:      it.Size,
				Quantity:  it.Quantity,
				UnitPrice: it.Price,
				LineTotal: it.Subtotal(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{Lines: lines, Total: decimal.Zero}
	for _, line := range lines {
		quote.ItemCount += line.Quantity
		quote.Total = quote.Total.Add(line.LineTotal)
	}
	return quote, nil
}
