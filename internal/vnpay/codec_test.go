package vnpay_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nhatminh-dev/drinkstore/internal/vnpay"
)

func TestVNPay(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VNPay Suite")
}

var _ = Describe("Canonicalize", func() {
	secret := []byte("test-hash-secret")

	It("should sort keys byte-wise regardless of insertion order", func() {
		a := []vnpay.Param{
			{Key: "vnp_TxnRef", Value: "42_20240101120000"},
			{Key: "vnp_Amount", Value: "50000000"},
			{Key: "vnp_Command", Value: "pay"},
		}
		b := []vnpay.Param{
			{Key: "vnp_Command", Value: "pay"},
			{Key: "vnp_Amount", Value: "50000000"},
			{Key: "vnp_TxnRef", Value: "42_20240101120000"},
		}

		Expect(vnpay.Canonicalize(a)).To(Equal(vnpay.Canonicalize(b)))
		Expect(vnpay.Canonicalize(a)).To(Equal(
			"vnp_Amount=50000000&vnp_Command=pay&vnp_TxnRef=42_20240101120000"))
	})

	It("should be deterministic across repeated calls", func() {
		params := []vnpay.Param{
			{Key: "vnp_OrderInfo", Value: "Thanh toan don hang 42"},
			{Key: "vnp_Amount", Value: "50000000"},
		}

		first := vnpay.Canonicalize(params)
		second := vnpay.Canonicalize(params)

		Expect(first).To(Equal(second))
	})

	It("should percent-encode with upper-case hex digits", func() {
		params := []vnpay.Param{
			{Key: "vnp_ReturnUrl", Value: "https://shop.example.com/payments/return"},
		}

		canonical := vnpay.Canonicalize(params)

		Expect(canonical).To(ContainSubstring("%3A%2F%2F"))
		Expect(canonical).NotTo(ContainSubstring("%3a"))
		Expect(canonical).NotTo(ContainSubstring("%2f"))
	})

	It("should encode multi-byte characters byte by byte", func() {
		params := []vnpay.Param{
			{Key: "vnp_OrderInfo", Value: "Thanh toán"},
		}

		canonical := vnpay.Canonicalize(params)

		Expect(canonical).To(Equal("vnp_OrderInfo=Thanh%20to%C3%A1n"))
	})

	It("should skip keys with empty values entirely", func() {
		params := []vnpay.Param{
			{Key: "vnp_Amount", Value: "1000"},
			{Key: "vnp_BankCode", Value: ""},
		}

		canonical := vnpay.Canonicalize(params)

		Expect(canonical).To(Equal("vnp_Amount=1000"))
		Expect(canonical).NotTo(ContainSubstring("vnp_BankCode"))
	})

	It("should exclude the signature fields from the signed string", func() {
		params := []vnpay.Param{
			{Key: "vnp_Amount", Value: "1000"},
			{Key: "vnp_SecureHash", Value: "deadbeef"},
			{Key: "vnp_SecureHashType", Value: "HmacSHA512"},
		}

		canonical := vnpay.Canonicalize(params)

		Expect(canonical).To(Equal("vnp_Amount=1000"))
	})

	It("should produce different signatures when only hex case differs", func() {
		params := []vnpay.Param{
			{Key: "vnp_ReturnUrl", Value: "https://shop.example.com/return"},
		}

		canonical := vnpay.Canonicalize(params)
		lowered := strings.ReplaceAll(canonical, "%2F", "%2f")

		Expect(lowered).NotTo(Equal(canonical))
		Expect(vnpay.Sign(secret, lowered)).NotTo(Equal(vnpay.Sign(secret, canonical)))
	})
})

var _ = Describe("Sign and Verify", func() {
	secret := []byte("merchant-secret-key")

	params := func() []vnpay.Param {
		return []vnpay.Param{
			{Key: "vnp_Amount", Value: "50000000"},
			{Key: "vnp_Command", Value: "pay"},
			{Key: "vnp_TmnCode", Value: "DEMOSHOP"},
			{Key: "vnp_TxnRef", Value: "42_20240101120000"},
		}
	}

	It("should emit lower-case hex signatures", func() {
		hash := vnpay.Sign(secret, vnpay.Canonicalize(params()))

		Expect(hash).To(HaveLen(128))
		Expect(hash).To(Equal(strings.ToLower(hash)))
	})

	It("should verify its own signature", func() {
		p := params()
		hash := vnpay.Sign(secret, vnpay.Canonicalize(p))
		p = append(p, vnpay.Param{Key: "vnp_SecureHash", Value: hash})

		result := vnpay.Verify(secret, p, hash)

		Expect(result.Valid).To(BeTrue())
		Expect(result.ComputedHash).To(Equal(hash))
		Expect(result.CanonicalString).NotTo(BeEmpty())
	})

	It("should accept a received hash in upper case", func() {
		p := params()
		hash := vnpay.Sign(secret, vnpay.Canonicalize(p))

		result := vnpay.Verify(secret, p, strings.ToUpper(hash))

		Expect(result.Valid).To(BeTrue())
	})

	It("should reject when any parameter value changes", func() {
		p := params()
		hash := vnpay.Sign(secret, vnpay.Canonicalize(p))
		p[0].Value = "40000000"

		result := vnpay.Verify(secret, p, hash)

		Expect(result.Valid).To(BeFalse())
		Expect(result.ComputedHash).NotTo(Equal(strings.ToLower(result.ReceivedHash)))
	})

	It("should reject when signed with a different secret", func() {
		p := params()
		hash := vnpay.Sign([]byte("other-secret"), vnpay.Canonicalize(p))

		result := vnpay.Verify(secret, p, hash)

		Expect(result.Valid).To(BeFalse())
	})

	It("should expose the canonical string for mismatch diagnostics", func() {
		p := params()

		result := vnpay.Verify(secret, p, "not-a-real-hash")

		Expect(result.Valid).To(BeFalse())
		Expect(result.CanonicalString).To(ContainSubstring("vnp_Amount=50000000"))
		Expect(result.ReceivedHash).To(Equal("not-a-real-hash"))
	})
})
