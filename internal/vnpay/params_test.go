package vnpay_test

import (
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/vnpay"
)

var _ = Describe("Transaction references", func() {
	It("should embed the order id and creation timestamp", func() {
		t := time.Date(2024, 3, 15, 9, 30, 45, 0, time.Local)

		ref := vnpay.BuildTxnRef(42, t)

		Expect(ref).To(Equal("42_20240315093045"))
	})

	It("should round-trip the order id", func() {
		now := time.Now()
		for _, orderID := range []int64{1, 42, 999, 1234567890} {
			ref := vnpay.BuildTxnRef(orderID, now)

			parsed, err := vnpay.OrderIDFromTxnRef(ref)

			Expect(err).ToNot(HaveOccurred())
			Expect(parsed).To(Equal(orderID))
		}
	})

	DescribeTable("malformed references",
		func(ref string) {
			_, err := vnpay.OrderIDFromTxnRef(ref)

			Expect(err).To(HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errors.ErrCodeMalformedTxnRef))
		},
		Entry("no separator", "4220240315093045"),
		Entry("empty prefix", "_20240315093045"),
		Entry("non-numeric prefix", "abc_20240315093045"),
		Entry("empty string", ""),
	)
})

var _ = Describe("PayParams", func() {
	var pay vnpay.PayParams

	BeforeEach(func() {
		pay = vnpay.PayParams{
			Version:    "2.1.0",
			Command:    "pay",
			TmnCode:    "DEMOSHOP",
			Amount:     500000,
			CurrCode:   "VND",
			IPAddr:     "203.0.113.7",
			Locale:     "vn",
			OrderInfo:  "Thanh toan don hang 42",
			OrderType:  "other",
			ReturnURL:  "https://shop.example.com/api/v1/payments/return",
			TxnRef:     "42_20240315093045",
			CreateDate: time.Date(2024, 3, 15, 9, 30, 45, 0, time.Local),
			ExpireDate: time.Date(2024, 3, 15, 9, 45, 45, 0, time.Local),
		}
	})

	It("should scale the amount to wire format", func() {
		params := pay.Params()

		var amount string
		for _, p := range params {
			if p.Key == vnpay.FieldAmount {
				amount = p.Value
			}
		}
		Expect(amount).To(Equal("50000000"))
	})

	It("should omit the bank code when not chosen", func() {
		for _, p := range pay.Params() {
			Expect(p.Key).NotTo(Equal(vnpay.FieldBankCode))
		}

		pay.BankCode = "NCB"
		keys := make([]string, 0)
		for _, p := range pay.Params() {
			keys = append(keys, p.Key)
		}
		Expect(keys).To(ContainElement(vnpay.FieldBankCode))
	})

	It("should append the signature to the signed query", func() {
		secret := []byte("merchant-secret")

		query := pay.SignedQuery(secret)

		canonical := vnpay.Canonicalize(pay.Params())
		Expect(query).To(Equal(canonical + "&vnp_SecureHash=" + vnpay.Sign(secret, canonical)))
	})

	It("should produce a query the verifier accepts", func() {
		secret := []byte("merchant-secret")

		query := pay.SignedQuery(secret)
		values, err := url.ParseQuery(query)
		Expect(err).ToNot(HaveOccurred())

		parsed := vnpay.ParseReturnParams(values)
		Expect(parsed.Verify(secret).Valid).To(BeTrue())
	})
})

var _ = Describe("ParseReturnParams", func() {
	It("should extract only the recognized namespace", func() {
		values := url.Values{}
		values.Set("vnp_Amount", "50000000")
		values.Set("vnp_TxnRef", "42_20240315093045")
		values.Set("utm_source", "newsletter")

		rp := vnpay.ParseReturnParams(values)

		Expect(rp.Raw).To(HaveLen(2))
		Expect(rp.Amount).To(Equal(int64(500000)))
		Expect(rp.TxnRef).To(Equal("42_20240315093045"))
	})

	It("should recover major units from the wire amount", func() {
		values := url.Values{}
		values.Set("vnp_Amount", "12345600")

		rp := vnpay.ParseReturnParams(values)

		Expect(rp.Amount).To(Equal(int64(123456)))
		Expect(rp.AmountWire).To(Equal(int64(12345600)))
	})

	It("should keep sub-unit noise visible in the wire amount", func() {
		values := url.Values{}
		values.Set("vnp_Amount", "12345699")

		rp := vnpay.ParseReturnParams(values)

		Expect(rp.Amount).To(Equal(int64(123456)))
		Expect(rp.AmountWire).To(Equal(int64(12345699)))
	})

	It("should parse the gateway pay date", func() {
		values := url.Values{}
		values.Set("vnp_PayDate", "20240315094512")

		rp := vnpay.ParseReturnParams(values)

		Expect(rp.PayDate.Year()).To(Equal(2024))
		Expect(rp.PayDate.Month()).To(Equal(time.March))
		Expect(rp.PayDate.Minute()).To(Equal(45))
	})

	It("should fall back to now for an unparsable pay date", func() {
		values := url.Values{}
		values.Set("vnp_PayDate", "not-a-date")

		before := time.Now()
		rp := vnpay.ParseReturnParams(values)

		Expect(rp.PayDate).To(BeTemporally(">=", before))
	})

	It("should capture callback metadata and the received hash", func() {
		values := url.Values{}
		values.Set("vnp_ResponseCode", "00")
		values.Set("vnp_TransactionNo", "14226112")
		values.Set("vnp_BankCode", "NCB")
		values.Set("vnp_CardType", "ATM")
		values.Set("vnp_SecureHash", "abcdef012345")

		rp := vnpay.ParseReturnParams(values)

		Expect(rp.IsSuccess()).To(BeTrue())
		Expect(rp.TransactionNo).To(Equal("14226112"))
		Expect(rp.BankCode).To(Equal("NCB"))
		Expect(rp.CardType).To(Equal("ATM"))
		Expect(rp.SecureHash).To(Equal("abcdef012345"))
	})

	It("should surface malformed transaction references as errors", func() {
		values := url.Values{}
		values.Set("vnp_TxnRef", "garbage-ref")

		rp := vnpay.ParseReturnParams(values)

		_, err := rp.OrderID()
		Expect(err).To(HaveOccurred())
	})
})
