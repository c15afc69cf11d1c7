// Package cart holds the in-progress order: cart lines, totals and the
// package bundling selection. Every operation takes its state by value and
// returns the next state, leaving inputs untouched.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

const MaxQuantity = 10

type Cart struct {
	Lines []domain.CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	for _, l := range c.Lines {
		if l.Quantity > 0 {
			return false
		}
	}
	return true
}

func (c Cart) Line(itemID string) (domain.CartLine, bool) {
	i := c.index(itemID)
	if i < 0 {
		return domain.CartLine{}, false
	}
	return c.Lines[i], true
}

func (c Cart) Total() decimal.Decimal {
	return Total(c.Lines)
}

// Placeable returns deep copies of the lines with a positive quantity, so an
// order built from them shares nothing with the cart.
func (c Cart) Placeable() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.Quantity > 0 {
			if l.Package != nil {
				contents := *l.Package
				contents.Primary = slices.Clone(contents.Primary)
				contents.Secondary = slices.Clone(contents.Secondary)
				l.Package = &contents
			}
			out = append(out, l)
		}
	}
	return out
}

func (c Cart) index(itemID string) int {
	return slices.IndexFunc(c.Lines, func(l domain.CartLine) bool { return l.Item.ID == itemID })
}

// Total sums price × quantity over lines with a positive quantity.
func Total(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func Clamp(quantity int) int {
	return max(0, min(quantity, MaxQuantity))
}

// SetLineQuantity sets the quantity of itemID, clamped to [0, MaxQuantity].
// Items missing from the catalog are ignored, except package lines already in
// the cart since those never live in the catalog. Zero removes the line.
func SetLineQuantity(catalog domain.Catalog, c Cart, itemID string, quantity int) Cart {
	quantity = Clamp(quantity)

	if item, ok := catalog.Lookup(itemID); ok {
		return upsert(c, domain.CartLine{
			Kind:     domain.LineKindRegular,
			Item:     item,
			Quantity: quantity,
		})
	}

	existing, ok := c.Line(itemID)
	if !ok || existing.Kind != domain.LineKindPackage {
		return c
	}
	existing.Quantity = quantity
	return upsert(c, existing)
}

// RemoveLine drops itemID from the cart whatever its kind.
func RemoveLine(c Cart, itemID string) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	return Cart{Lines: slices.Delete(slices.Clone(c.Lines), i, i+1)}
}

func upsert(c Cart, line domain.CartLine) Cart {
	i := c.index(line.Item.ID)
	if line.Quantity <= 0 {
		if i < 0 {
			return c
		}
		return RemoveLine(c, line.Item.ID)
	}

	lines := slices.Clone(c.Lines)
	if i < 0 {
		return Cart{Lines: append(lines, line)}
	}
	// The snapshot taken when the line was first added stays; only the
	// quantity moves.
	lines[i].Quantity = line.Quantity
	return Cart{Lines: lines}
}
