package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/cart"
	"github.com/joao-fontenele/menuflow/internal/checkout"
	"github.com/joao-fontenele/menuflow/internal/domain"
)

// demoDeadlineLead is how far ahead the displayed deadline sits when the
// demo catalog is served without a configured deadline.
const demoDeadlineLead = 48 * time.Hour

type CatalogLoader interface {
	Load(ctx context.Context) (domain.Catalog, bool, error)
}

type OrderingGate interface {
	IsClosed() bool
	Settings() domain.OrderSettings
}

type OrderSubmitter interface {
	Submit(ctx context.Context, c cart.Cart, details checkout.CustomerDetails) (*domain.Order, cart.Cart, error)
}

var (
	errCartLocked        = errors.New("order is being submitted")
	errNoPackage         = errors.New("no package selected")
	errIncompletePackage = errors.New("package selection is incomplete")
	errOrderingClosed    = errors.New("ordering is closed for this week")
	errDishNotAvailable  = errors.New("dish is not available for this package")
	errInvalidBucket     = errors.New("bucket must be primary or secondary")
)

type Handler struct {
	sessions  *SessionStore
	catalog   CatalogLoader
	packages  cart.Packages
	gate      OrderingGate
	submitter OrderSubmitter
	now       func() time.Time
	logger    *slog.Logger
}

// NewHandler wires the customer API. gate may be nil, in which case
// ordering is always open.
func NewHandler(sessions *SessionStore, catalog CatalogLoader, packages cart.Packages, gate OrderingGate, submitter OrderSubmitter, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		catalog:   catalog,
		packages:  packages,
		gate:      gate,
		submitter: submitter,
		now:       time.Now,
		logger:    logger,
	}
}

// Register mounts every storefront route on mux, wrapping each handler
// with wrap when it is not nil.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	if wrap == nil {
		wrap = func(f http.HandlerFunc) http.HandlerFunc { return f }
	}
	mux.HandleFunc("GET /menu", wrap(h.HandleMenu))
	mux.HandleFunc("GET /packages", wrap(h.HandlePackages))
	mux.HandleFunc("POST /sessions", wrap(h.HandleCreateSession))
	mux.HandleFunc("GET /sessions/{id}", wrap(h.HandleGetSession))
	mux.HandleFunc("PUT /sessions/{id}/cart/{itemId}", wrap(h.HandleSetQuantity))
	mux.HandleFunc("PUT /sessions/{id}/package", wrap(h.HandleChoosePackage))
	mux.HandleFunc("DELETE /sessions/{id}/package", wrap(h.HandleClearPackage))
	mux.HandleFunc("POST /sessions/{id}/package/toggle", wrap(h.HandleToggleDish))
	mux.HandleFunc("POST /sessions/{id}/package/confirm", wrap(h.HandleConfirmPackage))
	mux.HandleFunc("POST /sessions/{id}/checkout", wrap(h.HandleBeginCheckout))
	mux.HandleFunc("POST /sessions/{id}/checkout/cancel", wrap(h.HandleCancelCheckout))
	mux.HandleFunc("POST /sessions/{id}/submit", wrap(h.HandleSubmit))
}

type menuResponse struct {
	Categories     []domain.Group[domain.Category] `json:"categories"`
	Featured       domain.Catalog                  `json:"featured"`
	Cuisines       []string                        `json:"cuisines"`
	Demo           bool                            `json:"demo"`
	Deadline       *time.Time                      `json:"deadline,omitempty"`
	OrderingClosed bool                            `json:"orderingClosed"`
}

func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	catalog, demo, err := h.catalog.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	cuisines := []string{}
	for _, g := range domain.GroupBy(catalog, func(m domain.MenuItem) string { return m.Cuisine }) {
		if g.Key != "" {
			cuisines = append(cuisines, g.Key)
		}
	}

	shown := catalog.ByCuisine(r.URL.Query().Get("cuisine"))

	resp := menuResponse{
		Categories: domain.GroupByCategory(shown),
		Featured:   shown.Featured(),
		Cuisines:   cuisines,
		Demo:       demo,
	}
	if resp.Featured == nil {
		resp.Featured = domain.Catalog{}
	}

	if h.gate != nil {
		resp.Deadline = h.gate.Settings().OrderDeadline
		resp.OrderingClosed = h.gate.IsClosed()
	}
	if resp.Deadline == nil && demo {
		display := h.now().Add(demoDeadlineLead)
		resp.Deadline = &display
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandlePackages(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.packages)
}

type sessionView struct {
	Session
	Total           decimal.Decimal `json:"total"`
	PackageComplete bool            `json:"packageComplete"`
}

func (h *Handler) view(s Session) sessionView {
	v := sessionView{Session: s, Total: s.Cart.Total()}
	if s.PackageID != "" {
		if spec, err := h.packages.Get(s.PackageID); err == nil {
			v.PackageComplete = cart.IsComplete(s.Selection, spec)
		}
	}
	return v
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	h.logger.Info("session created", "session_id", sess.ID)
	h.writeJSON(w, http.StatusCreated, h.view(sess))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view(sess))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	catalog, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("itemId")
	h.mutate(w, r, func(s *Session) error {
		s.Cart = cart.SetLineQuantity(catalog, s.Cart, itemID, req.Quantity)
		return nil
	})
}

type packageRequest struct {
	PackageID string `json:"packageId"`
}

func (h *Handler) HandleChoosePackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.packages.Get(req.PackageID); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.mutate(w, r, func(s *Session) error {
		if s.PackageID != req.PackageID {
			s.Selection = cart.Selection{}
		}
		s.PackageID = req.PackageID
		return nil
	})
}

func (h *Handler) HandleClearPackage(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *Session) error {
		s.PackageID = ""
		s.Selection = cart.Selection{}
		return nil
	})
}

type toggleRequest struct {
	DishID string      `json:"dishId"`
	Bucket cart.Bucket `json:"bucket"`
}

func (h *Handler) HandleToggleDish(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Bucket.Valid() {
		h.writeFailure(w, errInvalidBucket)
		return
	}

	catalog, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, func(s *Session) error {
		spec, err := h.packages.Get(s.PackageID)
		if err != nil {
			return errNoPackage
		}
		// Deselecting never needs the catalog, so a dish that has since
		// left the menu can still be removed from its bucket.
		if !s.Selection.Has(req.Bucket, req.DishID) {
			if s.Selection.Has(req.Bucket.Other(), req.DishID) {
				return errDishNotAvailable
			}
			dish, found := catalog.Lookup(req.DishID)
			if !found || dish.Category != spec.Category(req.Bucket) {
				return errDishNotAvailable
			}
		}
		s.Selection = cart.ToggleDish(s.Selection, spec, req.DishID, req.Bucket)
		return nil
	})
}

func (h *Handler) HandleConfirmPackage(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}

	now := h.now()
	h.mutate(w, r, func(s *Session) error {
		spec, err := h.packages.Get(s.PackageID)
		if err != nil {
			return errNoPackage
		}
		conf, ok := cart.ConfirmPackage(s.Selection, spec, catalog, s.Cart, now)
		if !ok {
			return errIncompletePackage
		}
		s.Cart = conf.Cart
		s.Selection = conf.Selection
		s.PackageID = ""
		return nil
	})
}

func (h *Handler) HandleBeginCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Update(r.PathValue("id"), func(s *Session) error {
		if s.Cart.IsEmpty() {
			return checkout.ErrEmptyCart
		}
		event := checkout.EventBeginCheckout
		switch s.Phase {
		case checkout.PhaseCheckout:
			return nil
		case checkout.PhaseFailed:
			event = checkout.EventRetry
		}
		next, err := s.Phase.Next(event)
		if err != nil {
			return err
		}
		s.Phase = next
		return nil
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view(sess))
}

func (h *Handler) HandleCancelCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Update(r.PathValue("id"), func(s *Session) error {
		next, err := s.Phase.Next(checkout.EventCancel)
		if err != nil {
			return err
		}
		s.Phase = next
		s.LastError = ""
		return nil
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view(sess))
}

type submitResponse struct {
	Order   *domain.Order `json:"order"`
	Session sessionView   `json:"session"`
}

// HandleSubmit places the session's cart as an order. The session sits in
// the submitting phase while the order is persisted, which turns a second
// submit into a conflict instead of a duplicate order.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var details checkout.CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.gate != nil && h.gate.IsClosed() {
		h.writeFailure(w, errOrderingClosed)
		return
	}

	id := r.PathValue("id")
	var snapshot cart.Cart
	_, err := h.sessions.Update(id, func(s *Session) error {
		next, err := s.Phase.Next(checkout.EventSubmit)
		if err != nil {
			return err
		}
		if errs := checkout.ValidateCustomerDetails(details); len(errs) > 0 {
			return &checkout.ValidationError{Fields: errs}
		}
		if s.Cart.IsEmpty() {
			return checkout.ErrEmptyCart
		}
		s.Phase = next
		s.LastError = ""
		snapshot = s.Cart
		return nil
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	// The session must leave Submitting even if the submitter panics.
	settled := false
	defer func() {
		if !settled {
			h.logger.Error("order submission aborted", "session_id", id)
			_, _ = h.sessions.Update(id, markFailed)
		}
	}()

	order, remaining, submitErr := h.submitter.Submit(r.Context(), snapshot, details)
	settled = true

	sess, err := h.sessions.Update(id, func(s *Session) error {
		if submitErr != nil {
			return markFailed(s)
		}
		s.Phase, _ = s.Phase.Next(checkout.EventSucceeded)
		s.Cart = remaining
		s.Selection = cart.Selection{}
		s.PackageID = ""
		s.LastOrder = order
		return nil
	})
	if err != nil {
		h.logger.Error("session lost during submission", "error", err, "session_id", id)
	}

	if submitErr != nil {
		h.writeFailure(w, submitErr)
		return
	}

	h.writeJSON(w, http.StatusCreated, submitResponse{Order: order, Session: h.view(sess)})
}

const submitFailedMessage = "We couldn't place your order. Please try again."

func markFailed(s *Session) error {
	s.Phase, _ = s.Phase.Next(checkout.EventFailed)
	s.LastError = submitFailedMessage
	return nil
}

func (h *Handler) loadCatalog(w http.ResponseWriter, r *http.Request) (domain.Catalog, bool) {
	catalog, _, err := h.catalog.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return catalog, true
}

// mutate applies a cart or package edit. Edits are refused mid-submission,
// and an edit after a confirmed order starts a new one.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*Session) error) {
	sess, err := h.sessions.Update(r.PathValue("id"), func(s *Session) error {
		switch s.Phase {
		case checkout.PhaseSubmitting:
			return errCartLocked
		case checkout.PhaseConfirmed:
			next, err := s.Phase.Next(checkout.EventStartOver)
			if err != nil {
				return err
			}
			s.Phase = next
			s.LastOrder = nil
		}
		return fn(s)
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view(sess))
}

type validationResponse struct {
	Error  string                    `json:"error"`
	Fields checkout.ValidationErrors `json:"fields"`
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Info("order rejected", "fields", len(verr.Fields))
		h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "invalid customer details", Fields: verr.Fields})
	case errors.Is(err, ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, errIncompletePackage):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errInvalidBucket),
		errors.Is(err, errDishNotAvailable):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrSubmissionInFlight),
		errors.Is(err, checkout.ErrIllegalTransition),
		errors.Is(err, errCartLocked),
		errors.Is(err, errNoPackage),
		errors.Is(err, errOrderingClosed):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrSubmissionFailed):
		h.writeError(w, http.StatusBadGateway, submitFailedMessage)
	default:
		h.logger.Error("storefront request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
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
