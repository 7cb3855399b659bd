package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	paymentModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/payment"
	"github.com/nhatminh-dev/drinkstore/internal/order"
	"github.com/nhatminh-dev/drinkstore/internal/vnpay"
)

// Repository defines the data access methods for payments
type Repository interface {
	Create(p *paymentModel.Payment) error
	GetByOrderID(orderID int64) (*paymentModel.Payment, error)
	GetByID(id int64) (*paymentModel.Payment, error)
	UpdateStatus(id int64, status, transactionID string, paymentDate *time.Time, gatewayResponse []byte) error
	ListByStatus(status string, limit, offset int) ([]*paymentModel.Payment, error)
}

// OrdersAPI is the slice of order management the payment flow needs.
type OrdersAPI interface {
	GetOrder(id int64) (*order.Order, error)
	MarkPaid(id int64) (*order.Order, error)
}

type Service struct {
	repo    Repository
	orders  OrdersAPI
	settler *Settler
	config  internalVNPayConfig
	logger  *slog.Logger
	now     func() time.Time
}

// internalVNPayConfig mirrors the merchant gateway configuration without
// importing the config package into the payment domain.
type internalVNPayConfig struct {
	TmnCode    string
	HashSecret []byte
	PayURL     string
	ReturnURL  string
	Version    string
	Command    string
	CurrCode   string
	Locale     string
	OrderType  string
	Expire     time.Duration
}

type GatewayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Version    string
	Command    string
	CurrCode   string
	Locale     string
	OrderType  string
	Expire     time.Duration
}

func NewService(repo Repository, orders OrdersAPI, settler *Settler, cfg GatewayConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		orders:  orders,
		settler: settler,
		config: internalVNPayConfig{
			TmnCode:    cfg.TmnCode,
			HashSecret: []byte(cfg.HashSecret),
			PayURL:     cfg.PayURL,
			ReturnURL:  cfg.ReturnURL,
			Version:    cfg.Version,
			Command:    cfg.Command,
			CurrCode:   cfg.CurrCode,
			Locale:     cfg.Locale,
			OrderType:  cfg.OrderType,
			Expire:     cfg.Expire,
		},
		logger: logger,
		now:    time.Now,
	}
}

// CreatePaymentURL builds the signed redirect URL for an order. It performs
// no writes; the payment row is created when the gateway confirms via IPN.
func (s *Service) CreatePaymentURL(dto CreatePaymentDTO, clientIP string) (*CreatePaymentResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("CreatePaymentURL: validation failed", "error", err)
		return nil, err
	}

	ord, err := s.orders.GetOrder(dto.OrderID)
	if err != nil {
		s.logger.Error("CreatePaymentURL: order lookup failed", "error", err, "order_id", dto.OrderID)
		return nil, errors.ErrOrderNotFound
	}

	if ord.TotalAmount <= 0 {
		s.logger.Error("CreatePaymentURL: non-positive order amount",
			"order_id", ord.ID,
			"total_amount", ord.TotalAmount)
		return nil, errors.ErrInvalidAmount
	}

	if dto.Amount != 0 && dto.Amount != ord.TotalAmount {
		s.logger.Warn("CreatePaymentURL: client amount disagrees with order total",
			"order_id", ord.ID,
			"client_amount", dto.Amount,
			"total_amount", ord.TotalAmount)
		return nil, errors.NewValidationError("amount does not match order total", errors.ErrCodeAmountMismatch)
	}

	locale := dto.Locale
	if locale == "" {
		locale = s.config.Locale
	}

	createdAt := s.now()
	txnRef := vnpay.BuildTxnRef(ord.ID, createdAt)

	params := vnpay.PayParams{
		Version:    s.config.Version,
		Command:    s.config.Command,
		TmnCode:    s.config.TmnCode,
		Amount:     ord.TotalAmount,
		BankCode:   dto.BankCode,
		CreateDate: createdAt,
		ExpireDate: createdAt.Add(s.config.Expire),
		CurrCode:   s.config.CurrCode,
		IPAddr:     clientIP,
		Locale:     locale,
		OrderInfo:  fmt.Sprintf("Thanh toan don hang %d", ord.ID),
		OrderType:  s.config.OrderType,
		ReturnURL:  s.config.ReturnURL,
		TxnRef:     txnRef,
	}

	paymentURL := s.config.PayURL + "?" + params.SignedQuery(s.config.HashSecret)

	s.logger.Info("payment URL created",
		"order_id", ord.ID,
		"txn_ref", txnRef,
		"amount", ord.TotalAmount,
		"bank_code", dto.BankCode)

	return &CreatePaymentResponse{
		PaymentURL:  paymentURL,
		TxnRef:      txnRef,
		Amount:      ord.TotalAmount,
		OrderID:     ord.ID,
		CreatedDate: createdAt,
	}, nil
}

// HandleReturn validates the browser-return redirect. It is informational
// for the customer; nothing is settled here.
func (s *Service) HandleReturn(query url.Values) *ReturnResult {
	rp := vnpay.ParseReturnParams(query)

	verify := rp.Verify(s.config.HashSecret)
	if !verify.Valid {
		s.logger.Warn("return redirect failed signature check",
			"txn_ref", rp.TxnRef,
			"received_hash", verify.ReceivedHash)
		return &ReturnResult{
			Success: false,
			Message: "invalid signature",
			TxnRef:  rp.TxnRef,
		}
	}

	orderID, err := rp.OrderID()
	if err != nil {
		s.logger.Warn("return redirect carries malformed transaction reference", "txn_ref", rp.TxnRef)
		return &ReturnResult{
			Success: false,
			Message: "malformed transaction reference",
			TxnRef:  rp.TxnRef,
		}
	}

	result := &ReturnResult{
		OrderID:       orderID,
		Amount:        rp.Amount,
		TxnRef:        rp.TxnRef,
		TransactionNo: rp.TransactionNo,
		BankCode:      rp.BankCode,
		PayDate:       rp.PayDate,
		ResponseCode:  rp.ResponseCode,
	}

	if rp.IsSuccess() {
		result.Success = true
		result.Message = "payment successful"
	} else {
		result.Success = false
		result.Message = fmt.Sprintf("payment failed with gateway code %s", rp.ResponseCode)
	}

	s.logger.Info("browser return processed",
		"order_id", orderID,
		"txn_ref", rp.TxnRef,
		"response_code", rp.ResponseCode,
		"success", result.Success)

	return result
}

// HandleIPN processes the gateway's server-to-server confirmation. The
// response codes are fixed by the gateway contract; anything unexpected maps
// to the generic failure code so the gateway retries.
func (s *Service) HandleIPN(ctx context.Context, query url.Values) (resp IPNResponse) {
	var orderID int64

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing IPN", "panic", r, "order_id", orderID)
			resp = IPNResponse{RspCode: vnpay.IPNCodeUnknownError, Message: "Unknown error"}
		}
	}()

	rp := vnpay.ParseReturnParams(query)

	verify := rp.Verify(s.config.HashSecret)
	if !verify.Valid {
		s.logger.Warn("IPN failed signature check",
			"txn_ref", rp.TxnRef,
			"received_hash", verify.ReceivedHash)
		return IPNResponse{RspCode: vnpay.IPNCodeInvalidSignature, Message: "Invalid signature"}
	}

	orderID, err := rp.OrderID()
	if err != nil {
		s.logger.Warn("IPN carries malformed transaction reference", "txn_ref", rp.TxnRef)
		return IPNResponse{RspCode: vnpay.IPNCodeOrderNotFound, Message: "Order not found"}
	}

	ord, err := s.orders.GetOrder(orderID)
	if err != nil {
		s.logger.Warn("IPN references unknown order", "order_id", orderID, "txn_ref", rp.TxnRef)
		return IPNResponse{RspCode: vnpay.IPNCodeOrderNotFound, Message: "Order not found"}
	}

	// Compare on the raw wire value: truncating to major units first would
	// let a wire amount off by less than one unit pass as equal.
	if rp.AmountWire != ord.TotalAmount*100 {
		s.logger.Warn("IPN amount does not match order total",
			"order_id", orderID,
			"ipn_amount_wire", rp.AmountWire,
			"order_total", ord.TotalAmount)
		return IPNResponse{RspCode: vnpay.IPNCodeInvalidAmount, Message: "Invalid amount"}
	}

	if ord.Status != order.StatusPending && ord.Status != order.StatusCancelled {
		s.logger.Info("IPN for already settled order",
			"order_id", orderID,
			"status", ord.Status,
			"txn_ref", rp.TxnRef)
		return IPNResponse{RspCode: vnpay.IPNCodeAlreadyConfirmed, Message: "Order already confirmed"}
	}

	if !rp.IsSuccess() {
		if err := s.settler.RecordFailure(ctx, ord, rp); err != nil {
			s.logger.Error("failed to record failed payment",
				"error", err,
				"order_id", orderID)
			return IPNResponse{RspCode: vnpay.IPNCodeUnknownError, Message: "Unknown error"}
		}
		return IPNResponse{RspCode: vnpay.IPNCodeSuccess, Message: "Confirm success"}
	}

	if err := s.settler.Settle(ctx, ord, rp); err != nil {
		s.logger.Error("settlement failed", "error", err, "order_id", orderID, "txn_ref", rp.TxnRef)
		return IPNResponse{RspCode: vnpay.IPNCodeUnknownError, Message: "Unknown error"}
	}

	return IPNResponse{RspCode: vnpay.IPNCodeSuccess, Message: "Confirm success"}
}

// GetPaymentByOrderID returns the payment row for an order, if any.
func (s *Service) GetPaymentByOrderID(orderID int64) (*Payment, error) {
	entity, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		s.logger.Error("failed to get payment", "error", err, "order_id", orderID)
		return nil, errors.ErrPaymentNotFound
	}
	return FromDataModel(entity), nil
}
