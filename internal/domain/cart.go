package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one entry in a shopper's cart: a product snapshot taken at
// add time, a positive quantity and an optional variant label. Two lines
// with the same product id but different variants are distinct entries.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Variant  string  `json:"variant,omitempty"`
}

// Key returns the canonical line identity. Product ids are normalized to
// trimmed strings so numeric-looking ids from upstream sources compare
// consistently.
func (l CartLine) Key() string {
	return LineKey(l.Product.ID, l.Variant)
}

func LineKey(productID, variant string) string {
	return strings.TrimSpace(productID) + "\x00" + variant
}

// Subtotal is price × quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines; insertion order defines display
// order. Totals are always derived, never stored.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}
