package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: "a", Name: "Chicken curry", Price: decimal.NewFromInt(10), Category: domain.CategoryNonVeg},
		{ID: "b", Name: "Dhal curry", Price: decimal.RequireFromString("12.35"), Category: domain.CategoryVeg},
		{ID: "c", Name: "Papadam", Price: decimal.RequireFromString("0.10"), Category: domain.CategoryExtras},
	}
}

func TestSetLineQuantity(t *testing.T) {
	catalog := testCatalog()

	t.Run("add then remove", func(t *testing.T) {
		c := SetLineQuantity(catalog, Cart{}, "a", 2)
		require.Len(t, c.Lines, 1)
		assert.Equal(t, 2, c.Lines[0].Quantity)
		assert.Equal(t, domain.LineKindRegular, c.Lines[0].Kind)
		assert.True(t, c.Total().Equal(decimal.NewFromInt(20)))

		c = SetLineQuantity(catalog, c, "a", 0)
		assert.Empty(t, c.Lines)
		assert.True(t, c.Total().IsZero())
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		start := SetLineQuantity(catalog, Cart{}, "a", 1)
		next := SetLineQuantity(catalog, start, "deleted", 3)
		assert.Equal(t, start, next)
	})

	t.Run("clamps quantity", func(t *testing.T) {
		c := SetLineQuantity(catalog, Cart{}, "a", 15)
		require.Len(t, c.Lines, 1)
		assert.Equal(t, MaxQuantity, c.Lines[0].Quantity)

		c = SetLineQuantity(catalog, c, "a", -3)
		assert.Empty(t, c.Lines)
	})

	t.Run("idempotent for the same quantity", func(t *testing.T) {
		once := SetLineQuantity(catalog, Cart{}, "b", 4)
		twice := SetLineQuantity(catalog, once, "b", 4)
		assert.Equal(t, once, twice)
	})

	t.Run("zero on a missing line leaves cart alone", func(t *testing.T) {
		c := SetLineQuantity(catalog, Cart{}, "a", 1)
		assert.Equal(t, c, SetLineQuantity(catalog, c, "b", 0))
	})

	t.Run("keeps insertion order and one line per item", func(t *testing.T) {
		c := SetLineQuantity(catalog, Cart{}, "a", 1)
		c = SetLineQuantity(catalog, c, "b", 1)
		c = SetLineQuantity(catalog, c, "c", 1)
		c = SetLineQuantity(catalog, c, "a", 5)

		require.Len(t, c.Lines, 3)
		assert.Equal(t, "a", c.Lines[0].Item.ID)
		assert.Equal(t, 5, c.Lines[0].Quantity)
		assert.Equal(t, "b", c.Lines[1].Item.ID)
		assert.Equal(t, "c", c.Lines[2].Item.ID)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		start := SetLineQuantity(catalog, Cart{}, "a", 1)
		_ = SetLineQuantity(catalog, start, "a", 7)
		_ = SetLineQuantity(catalog, start, "a", 0)
		require.Len(t, start.Lines, 1)
		assert.Equal(t, 1, start.Lines[0].Quantity)
	})
}

func TestTotal(t *testing.T) {
	catalog := testCatalog()

	t.Run("exact decimal sum", func(t *testing.T) {
		c := SetLineQuantity(catalog, Cart{}, "b", 3)
		for i := 0; i < 10; i++ {
			c = SetLineQuantity(catalog, c, "c", 10)
		}
		// 3 × 12.35 + 10 × 0.10
		assert.Equal(t, "38.05", c.Total().StringFixed(2))
	})

	t.Run("ignores zero and negative quantities", func(t *testing.T) {
		lines := []domain.CartLine{
			{Item: catalog[0], Quantity: 2},
			{Item: catalog[1], Quantity: 0},
			{Item: catalog[2], Quantity: -4},
		}
		assert.True(t, Total(lines).Equal(decimal.NewFromInt(20)))
	})

	t.Run("empty cart", func(t *testing.T) {
		assert.True(t, Cart{}.Total().IsZero())
		assert.True(t, Cart{}.IsEmpty())
	})

	t.Run("many small lines accumulate without drift", func(t *testing.T) {
		lines := make([]domain.CartLine, 0, 1000)
		for i := 0; i < 1000; i++ {
			lines = append(lines, domain.CartLine{Item: catalog[2], Quantity: 1})
		}
		assert.Equal(t, "100.00", Total(lines).StringFixed(2))
	})
}

func TestPlaceable(t *testing.T) {
	c := Cart{Lines: []domain.CartLine{
		{Item: domain.MenuItem{ID: "a"}, Quantity: 1},
		{Item: domain.MenuItem{ID: "b"}, Quantity: 0},
	}}
	lines := c.Placeable()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].Item.ID)
	assert.False(t, c.IsEmpty())

	t.Run("package contents are not shared with the cart", func(t *testing.T) {
		c := Cart{Lines: []domain.CartLine{{
			Kind:     domain.LineKindPackage,
			Item:     domain.MenuItem{ID: "package-standard-1"},
			Quantity: 1,
			Package: &domain.PackageContents{
				PackageID: "standard",
				Primary:   []string{"Chicken curry"},
				Secondary: []string{"Dhal", "Beetroot"},
			},
		}}}

		lines := c.Placeable()
		require.Len(t, lines, 1)
		require.NotNil(t, lines[0].Package)

		lines[0].Package.PackageID = "premium"
		lines[0].Package.Primary[0] = "Fish curry"
		lines[0].Package.Secondary[1] = "Pumpkin"

		assert.Equal(t, "standard", c.Lines[0].Package.PackageID)
		assert.Equal(t, []string{"Chicken curry"}, c.Lines[0].Package.Primary)
		assert.Equal(t, []string{"Dhal", "Beetroot"}, c.Lines[0].Package.Secondary)
	})
}
