package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/menu", h.Menu)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products)
			r.Get("/{id}", h.Product)
		})
		r.Get("/cart", h.Cart)
		r.Get("/wishlist", h.Wishlist)
		r.Get("/counters", h.Counters)
		r.Get("/checkout", h.Checkout)
		r.Get("/notifications", h.Notifications)
		r.Delete("/panels/{panel}", h.ClosePanel)
		r.Post("/actions", h.Action)
	})

	return otelhttp.NewHandler(r, "storefront")
}
