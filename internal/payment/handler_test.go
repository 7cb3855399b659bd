package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/payment"
)

type mockPaymentService struct {
	createResponse *payment.CreatePaymentResponse
	createError    error
	returnResult   *payment.ReturnResult
	ipnResponse    payment.IPNResponse
	lastClientIP   string
	lastIPNQuery   url.Values
}

func (m *mockPaymentService) CreatePaymentURL(dto payment.CreatePaymentDTO, clientIP string) (*payment.CreatePaymentResponse, error) {
	m.lastClientIP = clientIP
	if m.createError != nil {
		return nil, m.createError
	}
	return m.createResponse, nil
}

func (m *mockPaymentService) HandleReturn(query url.Values) *payment.ReturnResult {
	return m.returnResult
}

func (m *mockPaymentService) HandleIPN(ctx context.Context, query url.Values) payment.IPNResponse {
	m.lastIPNQuery = query
	return m.ipnResponse
}

var _ = Describe("PaymentHandler", func() {
	var (
		handler *payment.Handler
		service *mockPaymentService
	)

	BeforeEach(func() {
		service = &mockPaymentService{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = payment.NewHandler(service, logger)
	})

	Describe("CreatePayment", func() {
		It("should return the signed URL payload", func() {
			service.createResponse = &payment.CreatePaymentResponse{
				PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_Amount=50000000",
				TxnRef:     "42_20240315092500",
				Amount:     500000,
				OrderID:    42,
			}

			body, _ := json.Marshal(payment.CreatePaymentDTO{OrderID: 42})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp payment.CreatePaymentResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.TxnRef).To(Equal("42_20240315092500"))
			Expect(resp.OrderID).To(Equal(int64(42)))
		})

		It("should prefer the forwarded client address", func() {
			service.createResponse = &payment.CreatePaymentResponse{}

			body, _ := json.Marshal(payment.CreatePaymentDTO{OrderID: 42})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create", bytes.NewReader(body))
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(service.lastClientIP).To(Equal("203.0.113.9"))
		})

		It("should map order not found to 404", func() {
			service.createError = apperrors.ErrOrderNotFound

			body, _ := json.Marshal(payment.CreatePaymentDTO{OrderID: 404})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject an unparsable body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Return", func() {
		It("should answer 200 even for a failed payment", func() {
			service.returnResult = &payment.ReturnResult{
				Success:      false,
				Message:      "payment failed with gateway code 24",
				ResponseCode: "24",
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/return?vnp_ResponseCode=24", nil)
			rec := httptest.NewRecorder()

			handler.Return(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var result payment.ReturnResult
			Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Success).To(BeFalse())
		})
	})

	Describe("IPN", func() {
		It("should pass the raw query through and answer 200 with the contract body", func() {
			service.ipnResponse = payment.IPNResponse{RspCode: "00", Message: "Confirm success"}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/ipn?vnp_TxnRef=42_20240315092500&vnp_Amount=50000000", nil)
			rec := httptest.NewRecorder()

			handler.IPN(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastIPNQuery.Get("vnp_TxnRef")).To(Equal("42_20240315092500"))

			var resp payment.IPNResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.RspCode).To(Equal("00"))
		})
	})
})
