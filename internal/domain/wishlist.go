package domain

import (
	"bytes"
	"encoding/json"
)

// Wishlist is an ordered set of product ids.
type Wishlist struct {
	ids []int64
}

func NewWishlist(ids ...int64) Wishlist {
	var w Wishlist
	for _, id := range ids {
		w.Add(id)
	}
	return w
}

func (w Wishlist) Contains(productID int64) bool {
	for _, id := range w.ids {
		if id == productID {
			return true
		}
	}
	return false
}

// Add inserts productID and reports false when it was already present.
func (w *Wishlist) Add(productID int64) bool {
	if w.Contains(productID) {
		return false
	}
	w.ids = append(w.ids, productID)
	return true
}

// Remove reports whether productID was present.
func (w *Wishlist) Remove(productID int64) bool {
	for i, id := range w.ids {
		if id == productID {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (w Wishlist) IDs() []int64 {
	out := make([]int64, len(w.ids))
	copy(out, w.ids)
	return out
}

func (w Wishlist) Len() int {
	return len(w.ids)
}

func (w Wishlist) MarshalJSON() ([]byte, error) {
	if w.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w.ids)
}

// UnmarshalJSON reads a JSON array of ids, dropping duplicates.
func (w *Wishlist) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = Wishlist{}
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*w = NewWishlist(ids...)
	return nil
}
