package cart

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

type Bucket string

const (
	BucketPrimary   Bucket = "primary"
	BucketSecondary Bucket = "secondary"
)

func (b Bucket) Valid() bool {
	return b == BucketPrimary || b == BucketSecondary
}

// Other returns the opposite bucket.
func (b Bucket) Other() Bucket {
	if b == BucketPrimary {
		return BucketSecondary
	}
	return BucketPrimary
}

// PackageSpec describes a fixed-price bundle: a number of dishes picked from
// a primary category plus a number picked from a secondary category.
type PackageSpec struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	LocalName         string          `json:"localName,omitempty"`
	Price             decimal.Decimal `json:"price"`
	PrimaryCount      int             `json:"primaryCount"`
	SecondaryCount    int             `json:"secondaryCount"`
	PrimaryCategory   domain.Category `json:"primaryCategory"`
	SecondaryCategory domain.Category `json:"secondaryCategory"`
	Sides             string          `json:"sides,omitempty"`
}

func (s PackageSpec) capacity(b Bucket) int {
	if b == BucketPrimary {
		return s.PrimaryCount
	}
	return s.SecondaryCount
}

// Category returns the catalog category dishes of bucket b are offered from.
func (s PackageSpec) Category(b Bucket) domain.Category {
	if b == BucketPrimary {
		return s.PrimaryCategory
	}
	return s.SecondaryCategory
}

// Selection is the in-progress dish pick for a package. Ids are kept in the
// order they were added.
type Selection struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

func (s Selection) IsEmpty() bool {
	return len(s.Primary) == 0 && len(s.Secondary) == 0
}

// Has reports whether dishID is picked in bucket b.
func (s Selection) Has(b Bucket, dishID string) bool {
	return slices.Contains(s.bucket(b), dishID)
}

func (s Selection) bucket(b Bucket) []string {
	if b == BucketPrimary {
		return s.Primary
	}
	return s.Secondary
}

func (s Selection) with(b Bucket, ids []string) Selection {
	if b == BucketPrimary {
		s.Primary = ids
	} else {
		s.Secondary = ids
	}
	return s
}

// ToggleDish flips dishID in bucket b. A bucket already at capacity drops its
// earliest pick to make room, so picking one too many replaces rather than
// rejects.
func ToggleDish(sel Selection, spec PackageSpec, dishID string, b Bucket) Selection {
	if !b.Valid() {
		return sel
	}
	ids := slices.Clone(sel.bucket(b))

	if i := slices.Index(ids, dishID); i >= 0 {
		return sel.with(b, slices.Delete(ids, i, i+1))
	}

	limit := spec.capacity(b)
	if limit <= 0 {
		return sel
	}
	for len(ids) >= limit {
		ids = slices.Delete(ids, 0, 1)
	}
	return sel.with(b, append(ids, dishID))
}

// IsComplete is true only when both buckets hold exactly their required count.
func IsComplete(sel Selection, spec PackageSpec) bool {
	return len(sel.Primary) == spec.PrimaryCount && len(sel.Secondary) == spec.SecondaryCount
}

type Confirmation struct {
	Item      domain.MenuItem
	Cart      Cart
	Selection Selection
}

// ConfirmPackage collapses a complete selection into one synthetic package
// line at quantity 1. The returned selection is empty. Ids no longer in the
// catalog are left out of the description without blocking confirmation.
// When the selection is incomplete nothing changes and ok is false.
func ConfirmPackage(sel Selection, spec PackageSpec, catalog domain.Catalog, c Cart, now time.Time) (Confirmation, bool) {
	if !IsComplete(sel, spec) {
		return Confirmation{Cart: c, Selection: sel}, false
	}

	primary := dishNames(catalog, sel.Primary)
	secondary := dishNames(catalog, sel.Secondary)

	item := domain.MenuItem{
		ID:          fmt.Sprintf("package-%s-%d", spec.ID, now.UnixMilli()),
		Name:        spec.Name,
		LocalName:   spec.LocalName,
		Price:       spec.Price,
		Description: describe(primary, secondary, spec.Sides),
		Category:    domain.CategoryPackage,
	}

	next := upsert(c, domain.CartLine{
		Kind:     domain.LineKindPackage,
		Item:     item,
		Quantity: 1,
		Package: &domain.PackageContents{
			PackageID: spec.ID,
			Primary:   primary,
			Secondary: secondary,
		},
	})

	return Confirmation{Item: item, Cart: next, Selection: Selection{}}, true
}

func dishNames(catalog domain.Catalog, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := catalog.Lookup(id); ok {
			names = append(names, item.Name)
		}
	}
	return names
}

func describe(primary, secondary []string, sides string) string {
	var parts []string
	if len(primary) > 0 {
		parts = append(parts, strings.Join(primary, ", "))
	}
	if len(secondary) > 0 {
		parts = append(parts, strings.Join(secondary, ", "))
	}

	desc := "Package includes: " + strings.Join(parts, " and ") + "."
	if sides != "" {
		desc += " " + sides
	}
	return desc
}
