package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joao-fontenele/menuflow/internal/domain"
	"github.com/joao-fontenele/menuflow/internal/messaging"
	"github.com/joao-fontenele/menuflow/internal/whatsapp"
)

// RelayMessage is what the relay service accepts on /send.
type RelayMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Link    string `json:"link"`
	OrderID string `json:"orderId,omitempty"`
}

// OrderHandler forwards every placed order to the kitchen's WhatsApp number
// through the relay service.
type OrderHandler struct {
	relayServiceURL string
	adminNumber     string
	location        *time.Location
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewOrderHandler(relayServiceURL, adminNumber string, location *time.Location, client *http.Client, logger *slog.Logger) *OrderHandler {
	if location == nil {
		location = time.Local
	}
	return &OrderHandler{
		relayServiceURL: relayServiceURL,
		adminNumber:     adminNumber,
		location:        location,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *OrderHandler) Handle(ctx context.Context, event domain.OrderPlacedEvent) error {
	order := event.Order()
	h.logger.Info("processing order placed event", "order_id", order.ID, "customer_name", order.CustomerName)

	text := whatsapp.OrderSummary(order, h.location)
	link, err := whatsapp.Link(h.adminNumber, text)
	if err != nil {
		return fmt.Errorf("%w: build order link: %w", messaging.ErrDiscard, err)
	}

	msg := RelayMessage{
		To:      whatsapp.Digits(h.adminNumber),
		Message: text,
		Link:    link,
		OrderID: order.ID,
	}
	if err := h.send(ctx, msg); err != nil {
		h.logger.Error("failed to relay order", "error", err, "order_id", order.ID)
		return fmt.Errorf("relay order %s: %w", order.ID, err)
	}

	h.logger.Info("order relayed", "order_id", order.ID)
	return nil
}

func (h *OrderHandler) send(ctx context.Context, msg RelayMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.relayServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The relay rejected the message itself; retrying cannot help.
		return fmt.Errorf("%w: relay service returned status %d", messaging.ErrDiscard, resp.StatusCode)
	default:
		return fmt.Errorf("relay service returned status %d", resp.StatusCode)
	}
}
