package order

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
	CreateOrder(dto CreateOrderDTO) (*Order, error)
	GetOrder(id int64) (*Order, error)
	GetCustomerOrders(customerID int64, limit, offset int) ([]*Order, error)
	UpdateStatus(id int64, target Status) (*Order, error)
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

// CreateOrder handles POST /api/v1/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrder: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	created, err := h.Service.CreateOrder(dto)
	if err != nil {
		h.Logger.Error("CreateOrder: service error", "error", err, "customer_id", dto.CustomerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// ListOrders handles GET /api/v1/orders?customer_id=N
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)
	if err != nil {
		h.HandleError(w, errors.NewValidationError("invalid customer ID", errors.ErrCodeValidationFailed))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	orders, err := h.Service.GetCustomerOrders(customerID, limit, offset)
	if err != nil {
		h.Logger.Error("ListOrders: service error", "error", err, "customer_id", customerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderIDFromURL(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	found, err := h.Service.GetOrder(id)
	if err != nil {
		h.Logger.Error("GetOrder: service error", "error", err, "order_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

// UpdateStatus handles PATCH /api/v1/orders/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderIDFromURL(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: failed to parse request body", "error", err, "order_id", id)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := dto.Validate(); err != nil {
		h.Logger.Error("UpdateStatus: validation error", "error", err, "order_id", id)
		h.HandleServiceError(w, err)
		return
	}

	target, err := ParseStatus(dto.Status)
	if err != nil {
		h.Logger.Error("UpdateStatus: unknown status", "status", dto.Status, "order_id", id)
		h.HandleError(w, err)
		return
	}

	updated, err := h.Service.UpdateStatus(id, target)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "order_id", id, "target", target)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) orderIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.Logger.Error("invalid order id in path", "raw", raw)
		return 0, errors.NewValidationError("invalid order ID", errors.ErrCodeValidationFailed)
	}
	return id, nil
}
