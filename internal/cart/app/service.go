package app

import (
	"log/slog"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var ErrInvalidVariant = errors.New("variant not offered by product")

// Service owns one session's cart. Listeners run after the mutation has
// completed and the lock is released.
type Service struct {
	mu        sync.Mutex
	cart      domain.Cart
	version   uint64
	listeners map[int]Listener
	nextID    int
	log       *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		listeners: make(map[int]Listener),
		log:       log,
	}
}

// AddItem adds one unit of the (color, size) variant of p.
func (s *Service) AddItem(p catalog.Product, color, size string) (domain.LineItem, error) {
	if !p.Offers(catalog.Variant{Color: color, Size: size}) {
		return domain.LineItem{}, errors.Wrapf(ErrInvalidVariant, "product %q color %q size %q", p.ID, color, size)
	}

	id := domain.ResolveLineID(p.ID, color, size)

	s.mu.Lock()
	created := s.cart.Add(domain.LineItem{
		LineID:    id,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Color:     color,
		Size:      size,
		Quantity:  1,
	})
	item, _ := s.cart.Get(id)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("cart item added",
		slog.String("line_id", id.String()),
		slog.Bool("new_line", created),
		slog.Int("quantity", item.Quantity),
	)
	s.notify(snap)
	return item, nil
}

// RemoveItem deletes the line if present. Removing an unknown line is a
// no-op and does not notify.
func (s *Service) RemoveItem(id domain.LineID) bool {
	s.mu.Lock()
	removed := s.cart.Remove(id)
	if !removed {
		s.mu.Unlock()
		return false
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("cart item removed", slog.String("line_id", id.String()))
	s.notify(snap)
	return true
}

func (s *Service) ListItems() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Service) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItemCount()
}

func (s *Service) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) Clear() {
	s.mu.Lock()
	s.cart.Clear()
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("cart cleared")
	s.notify(snap)
}

// Serialize encodes the current lines for the checkout handoff.
func (s *Service) Serialize() ([]byte, error) {
	return domain.EncodeItems(s.ListItems())
}

// Subscribe registers fn for every cart change and returns a function that
// removes it.
func (s *Service) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Version:        s.version,
		Items:          s.cart.Items(),
		TotalItemCount: s.cart.TotalItemCount(),
		TotalPrice:     s.cart.TotalPrice(),
	}
}

func (s *Service) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
