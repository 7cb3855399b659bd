package cart

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/transport"
)

type ServiceAPI interface {
	GetCart(customerID int64) (*Cart, error)
	AddItem(customerID int64, dto AddItemDTO) (*Cart, error)
	ClearCart(customerID int64) error
}

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
	Logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: *transport.NewBaseHandler(logger),
		Service:     service,
		Logger:      logger,
	}
}

// GetCart handles GET /api/v1/carts/{customerID}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.customerIDFromURL(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	found, err := h.Service.GetCart(customerID)
	if err != nil {
		h.Logger.Error("GetCart: service error", "error", err, "customer_id", customerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

// AddItem handles POST /api/v1/carts/{customerID}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.customerIDFromURL(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto AddItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddItem: failed to parse request body", "error", err, "customer_id", customerID)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.AddItem(customerID, dto)
	if err != nil {
		h.Logger.Error("AddItem: service error", "error", err, "customer_id", customerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// ClearCart handles DELETE /api/v1/carts/{customerID}/items
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.customerIDFromURL(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.Service.ClearCart(customerID); err != nil {
		h.Logger.Error("ClearCart: service error", "error", err, "customer_id", customerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *Handler) customerIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "customerID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.Logger.Error("invalid customer id in path", "raw", raw)
		return 0, errors.NewValidationError("invalid customer ID", errors.ErrCodeValidationFailed)
	}
	return id, nil
}
