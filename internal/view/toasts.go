package view

import (
	"sync"
	"time"
)

const defaultToastCapacity = 20

type Toast struct {
	Text    string    `json:"text"`
	IsError bool      `json:"is_error"`
	At      time.Time `json:"at"`
}

// ToastFeed buffers the latest toasts until the renderer drains them. When
// full the oldest toast is dropped.
type ToastFeed struct {
	mu       sync.Mutex
	items    []Toast
	capacity int
	now      func() time.Time
}

func NewToastFeed(capacity int) *ToastFeed {
	if capacity <= 0 {
		capacity = defaultToastCapacity
	}
	return &ToastFeed{capacity: capacity, now: time.Now}
}

func (f *ToastFeed) Toast(text string, isError bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == f.capacity {
		f.items = f.items[1:]
	}
	f.items = append(f.items, Toast{Text: text, IsError: isError, At: f.now()})
}

// Drain returns pending toasts oldest first and empties the feed.
func (f *ToastFeed) Drain() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		return []Toast{}
	}
	return out
}
