package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart maps product id to a positive quantity. Lines keep insertion order so
// re-renders never reshuffle them; a product id appears at most once.
type Cart struct {
	lines []CartLine
}

func NewCart(lines ...CartLine) Cart {
	var c Cart
	for _, l := range lines {
		c.Set(l.ProductID, l.Quantity)
	}
	return c
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Quantity(productID int64) (int, bool) {
	i := c.index(productID)
	if i < 0 {
		return 0, false
	}
	return c.lines[i].Quantity, true
}

func (c *Cart) Has(productID int64) bool {
	return c.index(productID) >= 0
}

// Set stores quantity for productID. A non-positive quantity deletes the line.
func (c *Cart) Set(productID int64, quantity int) {
	i := c.index(productID)
	if quantity <= 0 {
		if i >= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
	if i >= 0 {
		c.lines[i].Quantity = quantity
		return
	}
	c.lines = append(c.lines, CartLine{ProductID: productID, Quantity: quantity})
}

// Remove deletes the line and reports whether it existed.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Lines returns a copy of the lines in insertion order.
func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, len(c.lines))
	for i, l := range c.lines {
		ids[i] = l.ProductID
	}
	return ids
}

// Len is the number of distinct lines.
func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalQuantity is the sum of all line quantities.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c Cart) Clone() Cart {
	return Cart{lines: c.Lines()}
}

// MarshalJSON writes the cart as a JSON object keyed by product id, in line order.
func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range c.lines {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", strconv.FormatInt(l.ProductID, 10), l.Quantity)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON, keeping key
// order. Lines with a non-positive quantity are dropped; a non-numeric key or
// value is an error.
func (c *Cart) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Cart{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("cart: expected object, got %v", tok)
	}

	var out Cart
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("cart: invalid product id %q: %w", key, err)
		}

		var qty json.Number
		if err := dec.Decode(&qty); err != nil {
			return fmt.Errorf("cart: invalid quantity for product %d: %w", id, err)
		}
		n, err := qty.Int64()
		if err != nil {
			return fmt.Errorf("cart: invalid quantity for product %d: %w", id, err)
		}
		out.Set(id, int(n))
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
