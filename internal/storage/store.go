package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

const (
	CartKey     = "cart"
	WishlistKey = "wishlist"
)

// Store is the typed persistent store for the shopper's cart and wishlist.
// Reads never fail on bad data: a missing or malformed value reads as the
// empty default. Only backend failures are returned.
type Store struct {
	kv        KV
	namespace string
	logger    *zap.Logger
}

// NewStore prefixes every key with namespace. An empty namespace uses bare keys.
func NewStore(kv KV, namespace string, l *zap.Logger) *Store {
	return &Store{kv: kv, namespace: namespace, logger: logger.OrNop(l)}
}

func (s *Store) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// ReadCart also accepts the legacy array encoding of a cart.
func (s *Store) ReadCart(ctx context.Context) (domain.Cart, error) {
	data, err := s.read(ctx, CartKey)
	if err != nil || data == nil {
		return domain.Cart{}, err
	}

	var cart domain.Cart
	decodeErr := json.Unmarshal(data, &cart)
	if decodeErr == nil {
		return cart, nil
	}
	if legacy, ok := legacyCart(data); ok {
		return legacy, nil
	}
	s.corrupt(ctx, CartKey, data, decodeErr)
	return domain.Cart{}, nil
}

func (s *Store) WriteCart(ctx context.Context, cart domain.Cart) error {
	return s.write(ctx, CartKey, cart)
}

// ClearCart deletes the stored cart. An absent cart reads as empty.
func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(CartKey)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", CartKey, err)
	}
	return nil
}

func (s *Store) ReadWishlist(ctx context.Context) (domain.Wishlist, error) {
	data, err := s.read(ctx, WishlistKey)
	if err != nil || data == nil {
		return domain.Wishlist{}, err
	}

	var w domain.Wishlist
	if err := json.Unmarshal(data, &w); err != nil {
		s.corrupt(ctx, WishlistKey, data, err)
		return domain.Wishlist{}, nil
	}
	return w, nil
}

func (s *Store) WriteWishlist(ctx context.Context, w domain.Wishlist) error {
	return s.write(ctx, WishlistKey, w)
}

// read returns nil data for an absent key.
func (s *Store) read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Store) corrupt(ctx context.Context, name string, data []byte, err error) {
	if len(data) > 256 {
		data = data[:256]
	}
	logger.WithContext(ctx, s.logger).Warn("stored value is corrupt, using empty default",
		zap.String("key", s.key(name)),
		zap.ByteString("value", data),
		zap.Error(err))
}

// legacyCart reads the older cart format, a JSON array of product ids with
// one unit each.
func legacyCart(data []byte) (domain.Cart, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return domain.Cart{}, false
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return domain.Cart{}, false
	}
	var cart domain.Cart
	for _, id := range ids {
		if !cart.Has(id) {
			cart.Set(id, 1)
		}
	}
	return cart, true
}
