package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/menuflow/internal/domain"
	"github.com/joao-fontenele/menuflow/internal/whatsapp"
)

type Store interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// Handler serves the admin order views.
type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	orders = Search(orders, r.URL.Query().Get("q"))

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

type whatsAppResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// HandleWhatsApp builds the deep link for messaging the customer about an
// order. The phone query parameter overrides the number on the order.
func (h *Handler) HandleWhatsApp(w http.ResponseWriter, r *http.Request) {
	order, ok := h.lookup(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	message, err := whatsapp.CustomerMessage(query.Get("template"), *order, query.Get("message"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	phone := query.Get("phone")
	if phone == "" {
		phone = order.PhoneNumber
	}

	link, err := whatsapp.Link(phone, message)
	if err != nil {
		if errors.Is(err, whatsapp.ErrNoPhoneNumber) {
			h.writeError(w, http.StatusBadRequest, "order has no phone number")
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, whatsAppResponse{URL: link, Message: message})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return nil, false
	}

	order, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return nil, false
	}

	return order, true
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
