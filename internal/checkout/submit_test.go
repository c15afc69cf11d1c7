package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/menuflow/internal/cart"
	"github.com/joao-fontenele/menuflow/internal/domain"
)

type fakeStore struct {
	err    error
	orders []domain.Order
}

func (s *fakeStore) Create(_ context.Context, order *domain.Order) error {
	if s.err != nil {
		return s.err
	}
	order.ID = "order-1"
	order.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.orders = append(s.orders, *order)
	return nil
}

type fakePublisher struct {
	err    error
	events []domain.Order
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	p.events = append(p.events, order)
	return p.err
}

type fakeRecorder struct {
	placed, failed int
}

func (r *fakeRecorder) RecordOrderPlaced(context.Context, domain.Order) { r.placed++ }
func (r *fakeRecorder) RecordSubmissionFailed(context.Context)         { r.failed++ }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func filledCart() cart.Cart {
	catalog := domain.Catalog{
		{ID: "a", Name: "Chicken curry", Price: decimal.NewFromInt(10), Category: domain.CategoryNonVeg},
		{ID: "b", Name: "Dhal", Price: decimal.RequireFromString("7.50"), Category: domain.CategoryVeg},
	}
	c := cart.SetLineQuantity(catalog, cart.Cart{}, "a", 2)
	return cart.SetLineQuantity(catalog, c, "b", 1)
}

func validDetails() CustomerDetails {
	return CustomerDetails{
		CustomerName:   "  Jane  ",
		PhoneNumber:    "+94 77 123 4567",
		DeliveryMethod: domain.DeliveryMethodDelivery,
		Address:        "1 Main St",
	}
}

func TestSubmitter_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("places the order and clears the cart", func(t *testing.T) {
		store := &fakeStore{}
		events := &fakePublisher{}
		recorder := &fakeRecorder{}
		s := NewSubmitter(store, events, recorder, discardLogger())

		order, next, err := s.Submit(ctx, filledCart(), validDetails())
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, "Jane", order.CustomerName)
		assert.Equal(t, "1 Main St", order.Address)
		assert.Equal(t, "27.50", order.Total.StringFixed(2))
		assert.Len(t, order.Items, 2)
		assert.False(t, order.CreatedAt.IsZero())
		assert.True(t, next.IsEmpty())
		assert.Empty(t, next.Lines)

		require.Len(t, events.events, 1)
		assert.Equal(t, "order-1", events.events[0].ID)
		assert.Equal(t, 1, recorder.placed)
	})

	t.Run("keeps the cart when persistence fails", func(t *testing.T) {
		store := &fakeStore{err: errors.New("connection refused")}
		recorder := &fakeRecorder{}
		s := NewSubmitter(store, nil, recorder, discardLogger())
		c := filledCart()

		order, next, err := s.Submit(ctx, c, validDetails())
		assert.Nil(t, order)
		assert.True(t, errors.Is(err, ErrSubmissionFailed))
		assert.Equal(t, c, next)
		assert.Equal(t, 1, recorder.failed)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		store := &fakeStore{}
		s := NewSubmitter(store, nil, nil, discardLogger())
		c := filledCart()

		_, next, err := s.Submit(ctx, c, CustomerDetails{DeliveryMethod: domain.DeliveryMethodDelivery})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 3)
		assert.Equal(t, c, next)
		assert.Empty(t, store.orders)
	})

	t.Run("refuses an empty cart", func(t *testing.T) {
		s := NewSubmitter(&fakeStore{}, nil, nil, discardLogger())

		_, _, err := s.Submit(ctx, cart.Cart{}, validDetails())
		assert.True(t, errors.Is(err, ErrEmptyCart))
	})

	t.Run("drops zero quantity lines", func(t *testing.T) {
		store := &fakeStore{}
		s := NewSubmitter(store, nil, nil, discardLogger())
		c := filledCart()
		c.Lines = append(c.Lines, domain.CartLine{
			Kind:     domain.LineKindRegular,
			Item:     domain.MenuItem{ID: "ghost", Price: decimal.NewFromInt(100)},
			Quantity: 0,
		})

		order, _, err := s.Submit(ctx, c, validDetails())
		require.NoError(t, err)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "27.5", order.Total.String())
	})

	t.Run("pickup orders carry no address", func(t *testing.T) {
		s := NewSubmitter(&fakeStore{}, nil, nil, discardLogger())
		details := validDetails()
		details.DeliveryMethod = domain.DeliveryMethodPickup

		order, _, err := s.Submit(ctx, filledCart(), details)
		require.NoError(t, err)
		assert.Empty(t, order.Address)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		events := &fakePublisher{err: errors.New("broker down")}
		s := NewSubmitter(&fakeStore{}, events, nil, discardLogger())

		order, next, err := s.Submit(ctx, filledCart(), validDetails())
		require.NoError(t, err)
		assert.NotNil(t, order)
		assert.True(t, next.IsEmpty())
	})
}
