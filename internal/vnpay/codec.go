package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// Param is one wire field. The canonical string is built from an explicit
// ordered list rather than a map so signing and verifying cannot diverge on
// iteration order.
type Param struct {
	Key   string
	Value string
}

// Fields excluded from every signature computation. The hash is transmitted
// alongside the signed fields, so it can never cover itself.
var signatureFields = map[string]struct{}{
	FieldSecureHash:     {},
	FieldSecureHashType: {},
}

// SortParams returns a copy sorted by key, byte-wise ascending. Both the
// signer and the verifier must order keys identically or the hashes diverge.
func SortParams(params []Param) []Param {
	sorted := make([]Param, len(params))
	copy(sorted, params)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	return c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

// percentEncode applies RFC 3986 byte-value encoding with upper-case hex
// digits. The gateway hashes the encoded string verbatim, so lower-case hex
// produces a different signature even though the URLs are equivalent.
func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// Canonicalize filters out the signature fields and empty values, sorts the
// remaining keys byte-wise and emits key=percentEncode(value) pairs joined
// by "&". Keys with empty values are skipped entirely, never encoded as
// key=, because the gateway omits them on its side too.
func Canonicalize(params []Param) string {
	filtered := make([]Param, 0, len(params))
	for _, p := range params {
		if _, excluded := signatureFields[p.Key]; excluded {
			continue
		}
		if p.Value == "" {
			continue
		}
		filtered = append(filtered, p)
	}

	sorted := SortParams(filtered)

	var b strings.Builder
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(percentEncode(p.Value))
	}
	return b.String()
}

// Sign computes HMAC-SHA512 over message and returns it hex-encoded in
// lower case.
func Sign(secret []byte, message string) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyResult carries the intermediate values of a signature check.
// Signature mismatches on payment callbacks are a recurring support case, so
// the computed hash, the received hash and the exact canonical string must be
// loggable without re-deriving them by hand.
type VerifyResult struct {
	Valid           bool
	ComputedHash    string
	ReceivedHash    string
	CanonicalString string
}

// Verify recomputes the signature over params and compares it to
// receivedHash. Hex case of the received hash is not significant; the
// comparison itself is constant-time.
func Verify(secret []byte, params []Param, receivedHash string) VerifyResult {
	canonical := Canonicalize(params)
	computed := Sign(secret, canonical)
	received := strings.ToLower(receivedHash)

	valid := len(received) == len(computed) &&
		subtle.ConstantTimeCompare([]byte(computed), []byte(received)) == 1

	return VerifyResult{
		Valid:           valid,
		ComputedHash:    computed,
		ReceivedHash:    receivedHash,
		CanonicalString: canonical,
	}
}
