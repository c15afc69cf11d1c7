package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/domain"
	"github.com/joao-fontenele/menuflow/internal/messaging"
)

func testEvent() domain.OrderPlacedEvent {
	return domain.NewOrderPlacedEvent(domain.Order{
		ID:             "order-42",
		CustomerName:   "Kamala",
		DeliveryMethod: domain.DeliveryMethodPickup,
		PhoneNumber:    "0400 000 111",
		Items: []domain.CartLine{
			{Kind: domain.LineKindRegular, Item: domain.MenuItem{ID: "a", Name: "Dhal", Price: decimal.NewFromInt(12)}, Quantity: 2},
		},
		Total:     decimal.NewFromInt(24),
		CreatedAt: time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
	})
}

func newTestHandler(url, number string) *OrderHandler {
	return NewOrderHandler(url, number, time.UTC, http.DefaultClient, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOrderHandler_Handle(t *testing.T) {
	t.Run("relays the order summary to the admin number", func(t *testing.T) {
		var got RelayMessage
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/send" {
				t.Errorf("expected /send, got %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("failed to decode relay body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer relay.Close()

		err := newTestHandler(relay.URL, "+61 (400) 999-000").Handle(context.Background(), testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.To != "61400999000" {
			t.Errorf("expected digits-only number, got %s", got.To)
		}
		if got.OrderID != "order-42" {
			t.Errorf("expected order id, got %s", got.OrderID)
		}
		if !strings.Contains(got.Message, "*NEW ORDER #order-42*") || !strings.Contains(got.Message, "- 2x Dhal ($24.00)") {
			t.Errorf("unexpected message: %s", got.Message)
		}
		if !strings.HasPrefix(got.Link, "https://wa.me/61400999000?text=") {
			t.Errorf("unexpected link: %s", got.Link)
		}
	})

	t.Run("returns a retryable error when the relay is down", func(t *testing.T) {
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer relay.Close()

		err := newTestHandler(relay.URL, "123").Handle(context.Background(), testEvent())
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, messaging.ErrDiscard) {
			t.Errorf("expected a retryable error, got %v", err)
		}
	})

	t.Run("discards messages the relay rejects", func(t *testing.T) {
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer relay.Close()

		err := newTestHandler(relay.URL, "123").Handle(context.Background(), testEvent())
		if !errors.Is(err, messaging.ErrDiscard) {
			t.Errorf("expected ErrDiscard, got %v", err)
		}
	})

	t.Run("discards when no admin number is configured", func(t *testing.T) {
		err := newTestHandler("http://unused", "").Handle(context.Background(), testEvent())
		if !errors.Is(err, messaging.ErrDiscard) {
			t.Errorf("expected ErrDiscard, got %v", err)
		}
	})
}
