package forms

import (
	"fmt"
	"strings"
)

// DigitsOnly strips every non-digit rune. Card number and CVV input is
// sanitized with this rather than rejected.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatExpiry auto-formats expiry input to MM/YY by inserting the slash
// after the second digit. Input beyond four digits is dropped.
func FormatExpiry(s string) string {
	digits := DigitsOnly(s)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// FormatCardNumber groups a card number into blocks of four for display.
func FormatCardNumber(cardNumber string) string {
	var groups []string
	for i := 0; i < len(cardNumber); i += 4 {
		end := i + 4
		if end > len(cardNumber) {
			end = len(cardNumber)
		}
		groups = append(groups, cardNumber[i:end])
	}
	return strings.Join(groups, " ")
}

// MaskCardNumber hides all but the last four digits.
func MaskCardNumber(cardNumber string) string {
	suffix := cardNumber
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "**** **** **** " + suffix
}

// FormatCurrency renders a USD amount.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
