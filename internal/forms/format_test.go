package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "4111111111111111", DigitsOnly("4111-1111-1111-1111"))
	assert.Equal(t, "123", DigitsOnly(" 1a2b3c "))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "12/25", FormatExpiry("1225"))
	assert.Equal(t, "12/25", FormatExpiry("12/25"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/25", FormatExpiry("122567"))
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 11", FormatCardNumber("411111"))
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111111111111111"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$5.99", FormatCurrency(5.99))
	assert.Equal(t, "$24.99", FormatCurrency(24.99))
}
