package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/dispatch"
	"github.com/fjod/go_storefront/internal/view"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message, details string) {
	h.respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleError maps domain errors to HTTP status codes. The message is what
// the shopper sees.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unavailable *view.UnavailableError
		validation  *checkout.ValidationError
	)

	switch {
	case errors.As(err, &unavailable) && errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "timeout", unavailable.Placeholder, unavailable.Err.Error())
	case errors.As(err, &unavailable):
		h.respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", unavailable.Placeholder, unavailable.Err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out", "")
	case errors.Is(err, view.ErrStaleView):
		h.respondError(w, http.StatusConflict, "stale_view", "view superseded", "")
	case errors.Is(err, view.ErrUnknownPanel):
		h.respondError(w, http.StatusNotFound, "unknown_panel", err.Error(), "")
	case errors.Is(err, catalog.ErrProductNotFound):
		h.respondError(w, http.StatusNotFound, "not_found", "Product not found", err.Error())
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, cart.ErrTotalsUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog unavailable", err.Error())
	case errors.Is(err, dispatch.ErrUnknownAction), errors.Is(err, dispatch.ErrMissingArgument),
		errors.Is(err, cart.ErrInvalidProductID), errors.Is(err, checkout.ErrInvalidPaymentMethod):
		h.respondError(w, http.StatusBadRequest, "invalid_argument", err.Error(), "")
	case errors.Is(err, checkout.ErrCartEmpty):
		h.respondError(w, http.StatusUnprocessableEntity, "cart_empty", "Your cart is empty.", "")
	case errors.Is(err, checkout.ErrPaymentMethodRequired):
		h.respondError(w, http.StatusUnprocessableEntity, "payment_required", "Please select a payment method.", "")
	case errors.As(err, &validation):
		h.respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), fieldDetails(validation.Fields))
	case errors.Is(err, checkout.ErrIllegalTransition):
		h.respondError(w, http.StatusConflict, "illegal_transition", err.Error(), "")
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", "")
	}
}

func fieldDetails(fields map[string]string) string {
	lines := make([]string, 0, len(fields))
	for name, msg := range fields {
		lines = append(lines, name+": "+msg)
	}
	sort.Strings(lines)
	return strings.Join(lines, "; ")
}
