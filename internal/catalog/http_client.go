package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// HTTPClient talks to a dummyjson-compatible product API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// errNotFound is a 404 from the API. Only GetProduct reports it as
// ErrProductNotFound.
var errNotFound = errors.New("catalog resource not found")

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

func NewHTTPClient(baseURL string, timeout time.Duration, l *zap.Logger) *HTTPClient {
	l = logger.OrNop(l)

	settings := circuitbreaker.DefaultSettings("catalog")
	settings.OnStateChange = func(name, from, to string) {
		l.Warn("catalog circuit breaker state changed",
			zap.String("breaker", name), zap.String("from", from), zap.String("to", to))
	}
	transport := otelhttp.NewTransport(circuitbreaker.NewTransport(http.DefaultTransport, settings))

	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		logger:     l,
	}
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/category-list", &categories); err != nil {
		return nil, unavailableIfMissing(err)
	}
	return categories, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/products"
	if category != "" {
		path = "/products/category/" + url.PathEscape(category)
	}

	var resp productsResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		if category != "" && errors.Is(err, errNotFound) {
			// unknown category has no products
			return []domain.Product{}, nil
		}
		return nil, unavailableIfMissing(err)
	}
	return resp.Products, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), &p); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithContext(ctx, c.logger).Warn("catalog request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.WithContext(ctx, c.logger).Warn("catalog returned unexpected status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: catalog returned %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode catalog response: %w", ErrUnavailable, err)
	}
	return nil
}

func unavailableIfMissing(err error) error {
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
