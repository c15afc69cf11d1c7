package menu

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

type Store interface {
	List(ctx context.Context) (domain.Catalog, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Save(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) (bool, error)
}

var (
	ErrNameRequired    = errors.New("name is required")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("invalid category")
)

// Handler serves the admin menu management routes.
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

type itemRequest struct {
	Name        string          `json:"name"`
	LocalName   string          `json:"localName"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Category    domain.Category `json:"category"`
	Cuisine     string          `json:"cuisine"`
}

func (req itemRequest) item(id string) (*domain.MenuItem, error) {
	item := &domain.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		LocalName:   strings.TrimSpace(req.LocalName),
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    req.Category,
		Cuisine:     strings.TrimSpace(req.Cuisine),
	}
	if err := ValidateItem(*item); err != nil {
		return nil, err
	}
	return item, nil
}

func ValidateItem(item domain.MenuItem) error {
	if item.Name == "" {
		return ErrNameRequired
	}
	if item.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !item.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list menu items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := req.item("")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Save(r.Context(), item); err != nil {
		h.logger.Error("failed to create menu item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("menu item created", "item_id", item.ID, "category", item.Category)
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := req.item(id)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		h.writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	if err := h.store.Save(r.Context(), item); err != nil {
		h.logger.Error("failed to update menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("menu item updated", "item_id", id)
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	h.logger.Info("menu item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
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
