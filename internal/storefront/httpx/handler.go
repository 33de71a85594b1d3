package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/storefront"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"

	maxBodyBytes = 64 << 10
)

type sessionKey struct{}

type Handler struct {
	sessions *storefront.Sessions
	checkout *checkoutapp.Service
	money    storefront.Money
	log      *slog.Logger
}

func NewHandler(sessions *storefront.Sessions, checkout *checkoutapp.Service, money storefront.Money, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{sessions: sessions, checkout: checkout, money: money, log: log}
}

// withSession resolves the caller's session from the header or cookie,
// creating one when neither names a live session.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}

		s, created := h.sessions.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, s.ID)

		ctx := context.WithValue(r.Context(), sessionKey{}, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *storefront.Session {
	s, _ := ctx.Value(sessionKey{}).(*storefront.Session)
	return s
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, storefront.FilterSelected{Category: r.URL.Query().Get("category")})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).View().Categories)
}

func (h *Handler) OpenProduct(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, storefront.ProductOpened{ProductID: chi.URLParam(r, "id")})
}

func (h *Handler) CloseModals(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, storefront.ModalsClosed{})
}

func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, storefront.CartOpened{})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error(), nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "productId is required", nil)
		return
	}

	h.dispatch(w, r, storefront.VariantAddToCart{
		ProductID: req.ProductID,
		Color:     req.Color,
		Size:      req.Size,
	})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := cartdomain.ParseLineID(chi.URLParam(r, "lineId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_line_id", err.Error(), nil)
		return
	}
	h.dispatch(w, r, storefront.ItemRemoved{LineID: id})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	view, err := s.Dispatch(r.Context(), storefront.CheckoutRequested{})
	if err != nil {
		h.fail(w, r, err, &view)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		Key:      s.HandoffKey(),
		Redirect: view.Redirect,
		View:     view,
	})
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.Quote(r.Context(), sessionFrom(r.Context()).HandoffKey())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	resp := QuoteResponse{
		Lines:     make([]QuoteLineResponse, 0, len(quote.Lines)),
		ItemCount: quote.ItemCount,
		Total:     h.money.Format(quote.Total),
	}
	for _, l := range quote.Lines {
		resp.Lines = append(resp.Lines, QuoteLineResponse{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Color:     l.Color,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: h.money.Format(l.UnitPrice),
			LineTotal: h.money.Format(l.LineTotal),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, in storefront.Intent) {
	view, err := sessionFrom(r.Context()).Dispatch(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, &view)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, view *storefront.View) {
	status, code := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed", slog.Any("err", err))
		writeError(w, status, code, "internal error", nil)
		return
	}
	msg := err.Error()
	if view != nil && view.Notice != "" {
		msg = view.Notice
	}
	writeError(w, status, code, msg, view)
}

func httpStatusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, catalogapp.ErrNotFound), errors.Is(err, checkoutapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, checkoutapp.ErrNoHandoff):
		return http.StatusNotFound, "NO_HANDOFF"
	case errors.Is(err, cartapp.ErrInvalidVariant), errors.Is(err, checkoutapp.ErrInvalidVariant):
		return http.StatusUnprocessableEntity, "INVALID_VARIANT"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusConflict, "EMPTY_CART"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, view *storefront.View) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
		View:    view,
	})
}
