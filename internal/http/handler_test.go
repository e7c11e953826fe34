package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	NewRouter(s.handler).ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()

	NewRouter(s.handler).ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestGetCart_Empty(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decode[view.CartView](t, rec)
	assert.True(t, v.Empty)
	assert.Equal(t, view.MessageCartEmpty, v.Message)
	assert.True(t, v.Total.IsZero())
}

func TestGetCart_WithTotals(t *testing.T) {
	s := newTestServer()
	_, err := s.engine.AddToCart(context.Background(), 2)
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decode[view.CartView](t, rec)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "45.00", v.Subtotal.StringFixed(2))
	assert.Equal(t, "9.99", v.Shipping.StringFixed(2))
	assert.Equal(t, "54.99", v.Total.StringFixed(2))
}

func TestGetCart_CatalogDown(t *testing.T) {
	s := newTestServer()
	_, err := s.engine.AddToCart(context.Background(), 1)
	require.NoError(t, err)
	s.catalog.fail(catalog.ErrUnavailable)

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, view.PlaceholderCart, resp.Error)
	assert.Equal(t, "catalog_unavailable", resp.Code)
}

func TestGetCart_CatalogTimeout(t *testing.T) {
	s := newTestServer()
	_, err := s.engine.AddToCart(context.Background(), 1)
	require.NoError(t, err)
	s.catalog.fail(fmt.Errorf("%w: %w", catalog.ErrUnavailable, context.DeadlineExceeded))

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, view.PlaceholderCart, resp.Error)
	assert.Equal(t, "timeout", resp.Code)
}

func TestGetProducts_CatalogDown(t *testing.T) {
	s := newTestServer()
	s.catalog.fail(catalog.ErrUnavailable)

	rec := s.do(t, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, view.PlaceholderProducts, decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/v1/menu", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, view.PlaceholderMenu, decode[ErrorResponse](t, rec).Error)
}

func TestGetProducts_ByCategory(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/products?category=laptops", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cards := decode[[]view.ProductCard](t, rec)
	require.Len(t, cards, 1)
	assert.Equal(t, int64(2), cards[0].ID)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mascara", decode[view.ProductDetails](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/api/v1/products/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategories(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]catalog.MenuEntry](t, rec)
	assert.Equal(t, []catalog.MenuEntry{{Slug: "beauty", Name: "Beauty"}, {Slug: "laptops", Name: "Laptops"}}, entries)
}

func TestAction_AddToCartUpdatesCounters(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{"action": "add-to-cart", "product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/counters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cart_lines":1,"cart_quantity":1,"wishlist_items":0}`, rec.Body.String())
}

func TestAction_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"unknown action", map[string]any{"action": "teleport"}, http.StatusBadRequest, "invalid_argument"},
		{"missing product", map[string]any{"action": "add-to-cart"}, http.StatusBadRequest, "invalid_argument"},
		{"checkout empty cart", map[string]any{"action": "checkout"}, http.StatusUnprocessableEntity, "cart_empty"},
		{"select payment from idle", map[string]any{"action": "select-payment", "payment": map[string]any{"method": "cod"}}, http.StatusConflict, "illegal_transition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := s.do(t, http.MethodPost, "/api/v1/actions", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestAction_InvalidJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	NewRouter(s.handler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAction_SubmitValidation(t *testing.T) {
	s := newTestServer()
	_, err := s.engine.AddToCart(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{"action": "checkout"}).Code)

	rec := s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{"action": "submit"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please select a payment method.", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{
		"action":  "select-payment",
		"payment": map[string]any{"method": "bank"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{
		"action":   "submit",
		"customer": map[string]any{"name": "Ali"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Contains(t, resp.Details, "account_number")
	assert.Contains(t, resp.Details, "email")
	assert.Equal(t, domain.CheckoutStatePaymentSelected, s.flow.State())
}

func TestClosePanel_CheckoutCancelsFlow(t *testing.T) {
	s := newTestServer()
	_, err := s.engine.AddToCart(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/actions", map[string]any{"action": "checkout"}).Code)
	require.Equal(t, domain.CheckoutStateFormOpen, s.flow.State())

	rec := s.do(t, http.MethodDelete, "/api/v1/panels/checkout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.CheckoutStateIdle, s.flow.State())
	assert.False(t, s.tracker.IsOpen(view.PanelCheckout))

	rec = s.do(t, http.MethodGet, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CheckoutStateIdle, decode[view.CheckoutView](t, rec).State)
}

func TestClosePanel_Unknown(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodDelete, "/api/v1/panels/sidebar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications_Drain(t *testing.T) {
	s := newTestServer()
	s.toasts.Toast("Email sent to a@b.c", false)

	rec := s.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toasts := decode[[]view.Toast](t, rec)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Email sent to a@b.c", toasts[0].Text)

	rec = s.do(t, http.MethodGet, "/api/v1/notifications", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleError_Unexpected(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	s.handler.handleError(rec, req, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decode[ErrorResponse](t, rec).Code)
}
