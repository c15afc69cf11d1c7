package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/joao-fontenele/menuflow/internal/domain"
	"github.com/joao-fontenele/menuflow/internal/whatsapp"
)

type Store interface {
	Source
	SaveDeadline(ctx context.Context, deadline *time.Time) error
	MarkMenuPublished(ctx context.Context, deadline *time.Time, at time.Time) error
}

type MenuLister interface {
	List(ctx context.Context) (domain.Catalog, error)
}

// PublishConfig controls the weekly menu broadcast.
type PublishConfig struct {
	WhatsAppNumber string
	SiteURL        string
	Location       *time.Location
}

type Handler struct {
	store   Store
	menu    MenuLister
	publish PublishConfig
	now     func() time.Time
	logger  *slog.Logger
}

func NewHandler(store Store, menu MenuLister, publish PublishConfig, logger *slog.Logger) *Handler {
	if publish.Location == nil {
		publish.Location = time.Local
	}
	return &Handler{
		store:   store,
		menu:    menu,
		publish: publish,
		now:     time.Now,
		logger:  logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to get settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, s)
}

type deadlineRequest struct {
	OrderDeadline *time.Time `json:"orderDeadline"`
}

func (h *Handler) HandleSaveDeadline(w http.ResponseWriter, r *http.Request) {
	var req deadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.SaveDeadline(r.Context(), req.OrderDeadline); err != nil {
		h.logger.Error("failed to save deadline", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order deadline saved", "deadline", req.OrderDeadline)
	h.HandleGet(w, r)
}

type publishResponse struct {
	URL      string               `json:"url"`
	Message  string               `json:"message"`
	Settings domain.OrderSettings `json:"settings"`
}

// HandlePublish stamps the menu as published, optionally saving a new
// deadline, and returns the broadcast link for the current menu.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req deadlineRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ctx := r.Context()

	if err := h.store.MarkMenuPublished(ctx, req.OrderDeadline, h.now().UTC()); err != nil {
		h.logger.Error("failed to mark menu published", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s, err := h.store.Get(ctx)
	if err != nil {
		h.logger.Error("failed to get settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items, err := h.menu.List(ctx)
	if err != nil {
		h.logger.Error("failed to list menu items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	message := whatsapp.MenuBroadcast(items, s.OrderDeadline, h.publish.SiteURL, h.publish.Location)
	link, err := whatsapp.Link(h.publish.WhatsAppNumber, message)
	if err != nil {
		h.logger.Error("failed to build broadcast link", "error", err)
		h.writeError(w, http.StatusInternalServerError, "broadcast number is not configured")
		return
	}

	h.logger.Info("menu published", "items", len(items))
	h.writeJSON(w, http.StatusOK, publishResponse{URL: link, Message: message, Settings: s})
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
