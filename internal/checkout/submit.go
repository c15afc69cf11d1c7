package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/menuflow/internal/cart"
	"github.com/joao-fontenele/menuflow/internal/domain"
)

var (
	ErrEmptyCart        = errors.New("cart has no items")
	ErrSubmissionFailed = errors.New("order could not be placed")
)

// OrderStore persists a placed order, assigning its ID and CreatedAt.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

type OrderRecorder interface {
	RecordOrderPlaced(ctx context.Context, order domain.Order)
	RecordSubmissionFailed(ctx context.Context)
}

type Submitter struct {
	store    OrderStore
	events   EventPublisher
	recorder OrderRecorder
	logger   *slog.Logger
}

// NewSubmitter builds a Submitter. events and recorder may be nil.
func NewSubmitter(store OrderStore, events EventPublisher, recorder OrderRecorder, logger *slog.Logger) *Submitter {
	return &Submitter{
		store:    store,
		events:   events,
		recorder: recorder,
		logger:   logger,
	}
}

// Submit freezes c into an order and persists it. On success the returned
// cart is empty; on any failure the returned cart is c unchanged so the
// customer can retry.
func (s *Submitter) Submit(ctx context.Context, c cart.Cart, details CustomerDetails) (*domain.Order, cart.Cart, error) {
	if errs := ValidateCustomerDetails(details); len(errs) > 0 {
		return nil, c, &ValidationError{Fields: errs}
	}

	lines := c.Placeable()
	if len(lines) == 0 {
		return nil, c, ErrEmptyCart
	}

	order := &domain.Order{
		CustomerName:   strings.TrimSpace(details.CustomerName),
		DeliveryMethod: details.DeliveryMethod,
		PhoneNumber:    strings.TrimSpace(details.PhoneNumber),
		Items:          lines,
		Total:          cart.Total(lines),
	}
	if details.DeliveryMethod == domain.DeliveryMethodDelivery {
		order.Address = strings.TrimSpace(details.Address)
	}

	if err := s.store.Create(ctx, order); err != nil {
		s.logger.Error("failed to save order", "error", err, "customer_name", order.CustomerName)
		if s.recorder != nil {
			s.recorder.RecordSubmissionFailed(ctx)
		}
		return nil, c, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	if s.recorder != nil {
		s.recorder.RecordOrderPlaced(ctx, *order)
	}

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, *order); err != nil {
			s.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	s.logger.Info("order placed", "order_id", order.ID, "lines", len(order.Items), "total", order.Total.StringFixed(2))
	return order, cart.Cart{}, nil
}
