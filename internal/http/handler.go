package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/dispatch"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd dispatch.Command) (dispatch.Result, error)
}

type CountersSource interface {
	Counters(ctx context.Context) (cart.Counters, error)
}

type Notifications interface {
	Drain() []view.Toast
}

type CheckoutCanceler interface {
	Cancel(ctx context.Context) error
}

// Handler serves the storefront panels and the action endpoint.
type Handler struct {
	renderer      *view.Renderer
	dispatcher    Dispatcher
	counters      CountersSource
	notifications Notifications
	checkout      CheckoutCanceler
	timeout       time.Duration
	maxBodySize   int64
	logger        *zap.Logger
}

type Options struct {
	Renderer      *view.Renderer
	Dispatcher    Dispatcher
	Counters      CountersSource
	Notifications Notifications
	Checkout      CheckoutCanceler
	Timeout       time.Duration
	MaxBodySize   int64
	Logger        *zap.Logger
}

// NewHandler builds a handler from opts. A zero Timeout leaves requests
// bounded only by the client, and MaxBodySize defaults to 1MB.
func NewHandler(opts Options) *Handler {
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 1 << 20
	}
	return &Handler{
		renderer:      opts.Renderer,
		dispatcher:    opts.Dispatcher,
		counters:      opts.Counters,
		notifications: opts.Notifications,
		checkout:      opts.Checkout,
		timeout:       opts.Timeout,
		maxBodySize:   opts.MaxBodySize,
		logger:        logger.OrNop(opts.Logger),
	}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	categories, err := h.renderer.Categories(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	menu, err := h.renderer.Menu(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, menu)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	cards, err := h.renderer.Products(ctx, r.URL.Query().Get("category"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer", "")
		return
	}

	details, err := h.renderer.Details(ctx, productID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, details)
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	v, err := h.renderer.Cart(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, v)
}

func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	v, err := h.renderer.Wishlist(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, v)
}

func (h *Handler) Counters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	c, err := h.counters.Counters(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, c)
}

func (h *Handler) Checkout(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.renderer.Checkout())
}

func (h *Handler) Notifications(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.notifications.Drain())
}

// ClosePanel discards in-flight renders of the panel. Closing the checkout
// panel also cancels the flow.
func (h *Handler) ClosePanel(w http.ResponseWriter, r *http.Request) {
	panel, err := view.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if panel == view.PanelCheckout {
		ctx, cancel := h.requestContext(r)
		defer cancel()
		if err := h.checkout.Cancel(ctx); err != nil {
			h.handleError(w, r, err)
			return
		}
	}
	h.renderer.Tracker().Close(panel)
	w.WriteHeader(http.StatusNoContent)
}

// Action decodes a JSON command and answers with the dispatch result.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var cmd dispatch.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", "")
		return
	}

	res, err := h.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}
