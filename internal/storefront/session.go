package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

const DefaultToastDelay = 3 * time.Second

type Deps struct {
	Catalog    *catalogapp.Service
	Checkout   *checkoutapp.Service
	Money      Money
	HandoffKey string
	ToastDelay time.Duration
	Log        *slog.Logger
}

// Session is one shopper's view of the store: its own cart plus UI state.
// Dispatch calls are serialized; subscribers get a View after every change.
// The cart is only reachable through Dispatch.
type Session struct {
	ID string

	cart *cartapp.Service

	deps       Deps
	handoffKey string

	dispatchMu sync.Mutex

	mu        sync.Mutex
	state     State
	cartSnap  cartapp.Snapshot
	toastSeq  int
	listeners map[int]func(View)
	nextSub   int

	unsubscribeCart func()
}

func NewSession(id string, deps Deps) *Session {
	if deps.ToastDelay <= 0 {
		deps.ToastDelay = DefaultToastDelay
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	log := deps.Log.With(slog.String("session", id))
	deps.Log = log

	s := &Session{
		ID:         id,
		cart:       cartapp.NewService(log),
		deps:       deps,
		handoffKey: deps.HandoffKey,
		listeners:  make(map[int]func(View)),
	}
	s.cartSnap = s.cart.Snapshot()
	s.unsubscribeCart = s.cart.Subscribe(s.onCartChange)
	return s
}

// HandoffKey is the slot this session's cart is written to at checkout.
func (s *Session) HandoffKey() string {
	return s.handoffKey
}

// Items returns the lines currently in the session's cart.
func (s *Session) Items() []cartdomain.LineItem {
	return s.cart.ListItems()
}

// onCartChange keeps the newest snapshot; a listener call that lost the race
// to a later mutation is dropped.
func (s *Session) onCartChange(snap cartapp.Snapshot) {
	s.mu.Lock()
	if snap.Version >= s.cartSnap.Version {
		s.cartSnap = snap
	}
	s.mu.Unlock()
}

// Dispatch applies in and returns the resulting view. The returned error
// tells the caller why an intent was rejected; the view is valid either way.
func (s *Session) Dispatch(ctx context.Context, in Intent) (View, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.update(func(st *State) {
		st.Notice = ""
		st.Redirect = ""
	})

	err := s.apply(ctx, in)

	v := s.View()
	s.publish(v)
	return v, err
}

func (s *Session) apply(ctx context.Context, in Intent) error {
	switch in := in.(type) {
	case FilterSelected:
		s.update(func(st *State) { st.Filter = in.Category })

	case ProductOpened:
		if _, err := s.deps.Catalog.FindByID(in.ProductID); err != nil {
			return errors.Wrapf(err, "product %q", in.ProductID)
		}
		s.update(func(st *State) {
			st.Modal = ModalProduct
			st.ProductID = in.ProductID
		})

	case VariantAddToCart:
		return s.addToCart(in)

	case ItemRemoved:
		s.cart.RemoveItem(in.LineID)

	case CartOpened:
		s.update(func(st *State) { st.Modal = ModalCart })

	case ModalsClosed:
		s.update(func(st *State) {
			st.Modal = ModalNone
			st.ProductID = ""
		})

	case CheckoutRequested:
		h, err := s.deps.Checkout.Checkout(ctx, s.cart, s.handoffKey)
		if errors.Is(err, checkoutapp.ErrEmptyCart) {
			s.update(func(st *State) { st.Notice = EmptyCheckoutNotice })
			return err
		}
		if err != nil {
			return err
		}
		s.update(func(st *State) {
			st.Modal = ModalNone
			st.Redirect = h.Redirect
		})

	default:
		return errors.Errorf("unknown intent %T", in)
	}
	return nil
}

func (s *Session) addToCart(in VariantAddToCart) error {
	p, err := s.deps.Catalog.FindByID(in.ProductID)
	if err != nil {
		return errors.Wrapf(err, "product %q", in.ProductID)
	}

	def := p.DefaultVariant()
	color, size := in.Color, in.Size
	if color == "" {
		color = def.Color
	}
	if size == "" {
		size = def.Size
	}

	if _, err := s.cart.AddItem(p, color, size); err != nil {
		if errors.Is(err, cartapp.ErrInvalidVariant) {
			s.update(func(st *State) { st.Notice = InvalidVariantNotice })
		}
		return err
	}

	s.mu.Lock()
	s.state.Modal = ModalNone
	s.state.ProductID = ""
	s.state.Toast = true
	s.toastSeq++
	seq := s.toastSeq
	s.mu.Unlock()

	time.AfterFunc(s.deps.ToastDelay, func() { s.hideToast(seq) })
	return nil
}

// hideToast runs on the timer goroutine. A newer toast keeps showing for its
// own full delay.
func (s *Session) hideToast(seq int) {
	s.mu.Lock()
	if s.toastSeq != seq || !s.state.Toast {
		s.mu.Unlock()
		return
	}
	s.state.Toast = false
	s.mu.Unlock()

	s.publish(s.View())
}

func (s *Session) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) View() View {
	s.mu.Lock()
	st, snap := s.state, s.cartSnap
	s.mu.Unlock()
	return Render(st, s.deps.Catalog, snap, s.deps.Money)
}

func (s *Session) Subscribe(fn func(View)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(v View) {
	s.mu.Lock()
	fns := make([]func(View), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Close detaches the session from its cart.
func (s *Session) Close() {
	s.unsubscribeCart()
}
