package payment

import (
	"time"

	"github.com/nhatminh-dev/drinkstore/internal/core/common/validation"
)

// CreatePaymentDTO starts a checkout. Amount is optional; when the client
// sends it, it must match the order's recorded total. The signed URL is
// always priced from the stored order, never from the request.
type CreatePaymentDTO struct {
	OrderID  int64  `json:"order_id"`
	Amount   int64  `json:"amount,omitempty"`
	BankCode string `json:"bank_code,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

func (dto *CreatePaymentDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("order_id", dto.OrderID).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// CreatePaymentResponse carries the signed redirect URL back to the client.
type CreatePaymentResponse struct {
	PaymentURL  string    `json:"payment_url"`
	TxnRef      string    `json:"txn_ref"`
	Amount      int64     `json:"amount"`
	OrderID     int64     `json:"order_id"`
	CreatedDate time.Time `json:"created_date"`
}

// ReturnResult is what the browser-return page renders. It is informational
// only; settlement happens on the IPN path.
type ReturnResult struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	OrderID       int64     `json:"order_id,omitempty"`
	Amount        int64     `json:"amount,omitempty"`
	TxnRef        string    `json:"txn_ref,omitempty"`
	TransactionNo string    `json:"transaction_no,omitempty"`
	BankCode      string    `json:"bank_code,omitempty"`
	PayDate       time.Time `json:"pay_date,omitempty"`
	ResponseCode  string    `json:"response_code,omitempty"`
}

// IPNResponse is the acknowledgement body the gateway expects. The code
// values are fixed by the gateway contract.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
