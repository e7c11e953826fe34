package view

import (
	"fmt"
	"sync"
)

type Panel string

const (
	PanelCart     Panel = "cart"
	PanelWishlist Panel = "wishlist"
	PanelCheckout Panel = "checkout"
	PanelDetails  Panel = "details"
)

func ParsePanel(s string) (Panel, error) {
	switch p := Panel(s); p {
	case PanelCart, PanelWishlist, PanelCheckout, PanelDetails:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
	}
}

// Token identifies one render of a panel.
type Token struct {
	panel Panel
	gen   uint64
}

// Tracker remembers which panels are open and which render of each is the
// latest. Opening or closing a panel invalidates every earlier token for it.
type Tracker struct {
	mu   sync.Mutex
	gens map[Panel]uint64
	open map[Panel]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		gens: make(map[Panel]uint64),
		open: make(map[Panel]bool),
	}
}

// Begin opens panel and starts a render that supersedes earlier ones.
func (t *Tracker) Begin(panel Panel) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[panel]++
	t.open[panel] = true
	return Token{panel: panel, gen: t.gens[panel]}
}

func (t *Tracker) Close(panel Panel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[panel]++
	t.open[panel] = false
}

func (t *Tracker) IsOpen(panel Panel) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open[panel]
}

// Active reports whether tok is still the latest render of an open panel.
func (t *Tracker) Active(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open[tok.panel] && t.gens[tok.panel] == tok.gen
}
