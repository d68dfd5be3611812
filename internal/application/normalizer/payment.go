package normalizer

import (
	"regexp"
	"strings"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// Canonical payment-method labels.
const (
	PaymentCard          = "CARD"
	PaymentGooglePay     = "GOOGLE_PAY"
	PaymentApplePay      = "APPLE_PAY"
	PaymentDigitalWallet = "DIGITAL_WALLET"
	PaymentPaypal        = "PAYPAL"
	PaymentBankTransfer  = "BANK_TRANSFER"
	PaymentWireTransfer  = "WIRE_TRANSFER"
	PaymentACH           = "ACH"
	PaymentCrypto        = "CRYPTO"
	PaymentOther         = "OTHER"
)

var nonAlnumRun = regexp.MustCompile(`[^A-Za-z0-9]+`)

var paymentAliases = map[string]string{
	// cards collapse to one bucket
	"CARD":        PaymentCard,
	"CREDIT_CARD": PaymentCard,
	"DEBIT_CARD":  PaymentCard,

	// wallets
	"GOOGLE_PAY":     PaymentGooglePay,
	"APPLE_PAY":      PaymentApplePay,
	"DIGITAL_WALLET": PaymentDigitalWallet,
	"PAYPAL":         PaymentPaypal,

	// transfers
	"BANK_TRANSFER": PaymentBankTransfer,
	"WIRE_TRANSFER": PaymentWireTransfer,
	"ACH":           PaymentACH,

	// crypto
	"BITCOIN": PaymentCrypto,
	"CRYPTO":  PaymentCrypto,
}

// NormalizePaymentMethod collapses a free-form payment-method label onto the
// canonical set. This field always has a defined value: missing or unmapped
// input maps to OTHER, never to null.
func NormalizePaymentMethod(v entity.Value) entity.Value {
	if v.IsNull() {
		return entity.String(PaymentOther)
	}

	s := strings.TrimSpace(v.Text())
	if s == "" {
		return entity.String(PaymentOther)
	}

	s = nonAlnumRun.ReplaceAllString(s, "_")
	s = strings.Trim(strings.ToUpper(s), "_")

	if canonical, ok := paymentAliases[s]; ok {
		return entity.String(canonical)
	}
	return entity.String(PaymentOther)
}
