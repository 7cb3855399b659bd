package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/transport"
)

type ServiceAPI interface {
	CreatePaymentURL(dto CreatePaymentDTO, clientIP string) (*CreatePaymentResponse, error)
	HandleReturn(query url.Values) *ReturnResult
	HandleIPN(ctx context.Context, query url.Values) IPNResponse
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

// CreatePayment handles POST /api/v1/payments/create
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var dto CreatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreatePayment: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.CreatePaymentURL(dto, clientIP(r))
	if err != nil {
		h.Logger.Error("CreatePayment: service error", "error", err, "order_id", dto.OrderID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Return handles GET /api/v1/payments/return. The gateway redirects the
// customer's browser here after checkout; always answer 200 so the browser
// can render an outcome page.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	result := h.Service.HandleReturn(r.URL.Query())
	h.WriteJSON(w, http.StatusOK, result)
}

// IPN handles GET /api/v1/payments/ipn. The gateway delivers confirmations
// as query parameters and reads the acknowledgement code from the body.
func (h *Handler) IPN(w http.ResponseWriter, r *http.Request) {
	resp := h.Service.HandleIPN(r.Context(), r.URL.Query())
	h.WriteJSON(w, http.StatusOK, resp)
}

// clientIP prefers the forwarded address set by the edge proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
