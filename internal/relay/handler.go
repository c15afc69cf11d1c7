package relay

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"
)

const historySize = 100

// Message is one relayed WhatsApp message.
type Message struct {
	To      string    `json:"to"`
	Message string    `json:"message"`
	Link    string    `json:"link,omitempty"`
	OrderID string    `json:"orderId,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}

// Handler stands in for an outbound messaging provider: it accepts messages,
// simulates delivery latency and keeps the most recent ones for inspection.
type Handler struct {
	logger *slog.Logger
	delay  func() time.Duration

	mu      sync.Mutex
	history []Message
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		delay: func() time.Duration {
			return time.Duration(50+rand.IntN(151)) * time.Millisecond
		},
	}
}

type sendResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "to and message are required")
		return
	}

	select {
	case <-time.After(h.delay()):
	case <-r.Context().Done():
		h.writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	msg.SentAt = time.Now().UTC()
	h.remember(msg)

	h.logger.Info("whatsapp message relayed", "to", msg.To, "order_id", msg.OrderID)
	h.writeJSON(w, http.StatusOK, sendResponse{Status: "sent"})
}

// HandleList returns relayed messages, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	out := make([]Message, 0, len(h.history))
	for i := len(h.history) - 1; i >= 0; i-- {
		out = append(out, h.history[i])
	}
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) remember(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, msg)
	if len(h.history) > historySize {
		h.history = h.history[len(h.history)-historySize:]
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
