package vnpay

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	errors "github.com/nhatminh-dev/drinkstore/internal"
)

// Wire field names, fixed by the gateway's published integration spec. The
// shared vnp_ prefix marks which inbound query parameters belong to the
// protocol.
const (
	FieldPrefix = "vnp_"

	FieldVersion        = "vnp_Version"
	FieldCommand        = "vnp_Command"
	FieldTmnCode        = "vnp_TmnCode"
	FieldAmount         = "vnp_Amount"
	FieldCurrCode       = "vnp_CurrCode"
	FieldTxnRef         = "vnp_TxnRef"
	FieldOrderInfo      = "vnp_OrderInfo"
	FieldOrderType      = "vnp_OrderType"
	FieldLocale         = "vnp_Locale"
	FieldReturnURL      = "vnp_ReturnUrl"
	FieldIPAddr         = "vnp_IpAddr"
	FieldCreateDate     = "vnp_CreateDate"
	FieldExpireDate     = "vnp_ExpireDate"
	FieldBankCode       = "vnp_BankCode"
	FieldBankTranNo     = "vnp_BankTranNo"
	FieldCardType       = "vnp_CardType"
	FieldPayDate        = "vnp_PayDate"
	FieldResponseCode   = "vnp_ResponseCode"
	FieldTransactionNo  = "vnp_TransactionNo"
	FieldTxnStatus      = "vnp_TransactionStatus"
	FieldSecureHash     = "vnp_SecureHash"
	FieldSecureHashType = "vnp_SecureHashType"
)

// ResponseCodeSuccess is the gateway's code for a completed payment.
const ResponseCodeSuccess = "00"

// IPN acknowledgement codes, dictated by the gateway's integration contract.
const (
	IPNCodeSuccess          = "00"
	IPNCodeOrderNotFound    = "01"
	IPNCodeAlreadyConfirmed = "02"
	IPNCodeInvalidAmount    = "04"
	IPNCodeInvalidSignature = "97"
	IPNCodeUnknownError     = "99"
)

// timestampLayout is the gateway's 14-digit wire format for all timestamps.
const timestampLayout = "20060102150405"

func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.Local)
}

// BuildTxnRef derives the transaction reference for one payment attempt.
// The order id is recoverable from the leading segment; the timestamp keeps
// retried attempts for the same order distinct.
func BuildTxnRef(orderID int64, t time.Time) string {
	return fmt.Sprintf("%d_%s", orderID, FormatTimestamp(t))
}

// OrderIDFromTxnRef parses the numeric segment before the first separator.
// A malformed reference is an error, never a silently wrong id.
func OrderIDFromTxnRef(ref string) (int64, error) {
	idx := strings.IndexByte(ref, '_')
	if idx <= 0 {
		return 0, errors.NewValidationError(
			fmt.Sprintf("transaction reference %q has no order id segment", ref),
			errors.ErrCodeMalformedTxnRef,
		)
	}
	orderID, err := strconv.ParseInt(ref[:idx], 10, 64)
	if err != nil {
		return 0, errors.NewValidationError(
			fmt.Sprintf("transaction reference %q has a non-numeric order id", ref),
			errors.ErrCodeMalformedTxnRef,
		).WithCause(err)
	}
	return orderID, nil
}

// PayParams is the outbound parameter set for building a redirect URL.
// Amount is in major currency units; the wire carries it multiplied by 100.
type PayParams struct {
	Version    string
	Command    string
	TmnCode    string
	Amount     int64
	BankCode   string
	CreateDate time.Time
	ExpireDate time.Time
	CurrCode   string
	IPAddr     string
	Locale     string
	OrderInfo  string
	OrderType  string
	ReturnURL  string
	TxnRef     string
}

// Params flattens the request into wire fields. Optional fields with no
// value are left out so they are also absent from the signed string.
func (p PayParams) Params() []Param {
	params := []Param{
		{FieldVersion, p.Version},
		{FieldCommand, p.Command},
		{FieldTmnCode, p.TmnCode},
		{FieldAmount, strconv.FormatInt(p.Amount*100, 10)},
		{FieldCurrCode, p.CurrCode},
		{FieldTxnRef, p.TxnRef},
		{FieldOrderInfo, p.OrderInfo},
		{FieldOrderType, p.OrderType},
		{FieldLocale, p.Locale},
		{FieldReturnURL, p.ReturnURL},
		{FieldIPAddr, p.IPAddr},
		{FieldCreateDate, FormatTimestamp(p.CreateDate)},
		{FieldExpireDate, FormatTimestamp(p.ExpireDate)},
	}
	if p.BankCode != "" {
		params = append(params, Param{FieldBankCode, p.BankCode})
	}
	return params
}

// SignedQuery canonicalizes, signs and returns the full query string with
// the signature appended, ready to attach to the gateway's base URL.
func (p PayParams) SignedQuery(secret []byte) string {
	canonical := Canonicalize(p.Params())
	hash := Sign(secret, canonical)
	return canonical + "&" + FieldSecureHash + "=" + hash
}

// ReturnParams is the inbound parameter set of a browser return or IPN
// delivery. Raw retains every vnp_ field exactly as received so the
// signature can be re-derived; the typed fields are parsed conveniences.
type ReturnParams struct {
	Raw []Param

	// Amount is the wire amount scaled to major units for display; AmountWire
	// keeps the untruncated value so exactness checks cannot be fooled by
	// sub-unit noise the integer division would discard.
	Amount            int64
	AmountWire        int64
	BankCode          string
	BankTranNo        string
	CardType          string
	OrderInfo         string
	PayDate           time.Time
	ResponseCode      string
	TmnCode           string
	TransactionNo     string
	TransactionStatus string
	TxnRef            string
	SecureHash        string
}

// ParseReturnParams extracts the recognized namespace from an inbound query.
// The wire amount is scaled back to major units. An unparsable pay date
// falls back to the current time rather than failing the whole callback.
func ParseReturnParams(values url.Values) ReturnParams {
	var rp ReturnParams

	for key, vals := range values {
		if !strings.HasPrefix(key, FieldPrefix) || len(vals) == 0 {
			continue
		}
		rp.Raw = append(rp.Raw, Param{Key: key, Value: vals[0]})
	}
	rp.Raw = SortParams(rp.Raw)

	for _, p := range rp.Raw {
		switch p.Key {
		case FieldAmount:
			if wire, err := strconv.ParseInt(p.Value, 10, 64); err == nil {
				rp.AmountWire = wire
				rp.Amount = wire / 100
			}
		case FieldBankCode:
			rp.BankCode = p.Value
		case FieldBankTranNo:
			rp.BankTranNo = p.Value
		case FieldCardType:
			rp.CardType = p.Value
		case FieldOrderInfo:
			rp.OrderInfo = p.Value
		case FieldPayDate:
			if t, err := ParseTimestamp(p.Value); err == nil {
				rp.PayDate = t
			}
		case FieldResponseCode:
			rp.ResponseCode = p.Value
		case FieldTmnCode:
			rp.TmnCode = p.Value
		case FieldTransactionNo:
			rp.TransactionNo = p.Value
		case FieldTxnStatus:
			rp.TransactionStatus = p.Value
		case FieldTxnRef:
			rp.TxnRef = p.Value
		case FieldSecureHash:
			rp.SecureHash = p.Value
		}
	}

	if rp.PayDate.IsZero() {
		rp.PayDate = time.Now()
	}

	return rp
}

// Verify checks the received signature against the raw parameter set.
func (rp ReturnParams) Verify(secret []byte) VerifyResult {
	return Verify(secret, rp.Raw, rp.SecureHash)
}

// IsSuccess reports whether the gateway confirmed the payment.
func (rp ReturnParams) IsSuccess() bool {
	return rp.ResponseCode == ResponseCodeSuccess
}

// OrderID recovers the local order id from the transaction reference.
func (rp ReturnParams) OrderID() (int64, error) {
	return OrderIDFromTxnRef(rp.TxnRef)
}
