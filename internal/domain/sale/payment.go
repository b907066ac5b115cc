package sale

import (
	"strings"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

var PaymentMethods = []string{
	models.PaymentCash,
	models.PaymentCard,
	models.PaymentYape,
	models.PaymentPlin,
}

func IsPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// NormalizePaymentMethod lower-cases m and defaults empty input to cash.
func NormalizePaymentMethod(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return models.PaymentCash, nil
	}
	if !IsPaymentMethod(m) {
		return "", httperr.Validation("invalid_payment_method", "payment_method must be one of cash, card, yape, plin")
	}
	return m, nil
}
