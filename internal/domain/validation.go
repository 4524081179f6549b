package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Validation constants
const (
	MaxScenarioNameLength = 255
	MinScenarioNameLength = 1
	MaxPrincipal          = "1000000000000" // 1 trillion
	MaxTermMonths         = 1200
	MaxAnnualRatePercent  = 100
	MaxBorrowerAge        = 120
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"NIO": true,
}

// ValidateScenarioName validates a scenario name
func ValidateScenarioName(name string) error {
	name = strings.TrimSpace(name)

	length := utf8.RuneCountInString(name)

	if length < MinScenarioNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidScenarioName)
	}

	if length > MaxScenarioNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidScenarioName, MaxScenarioNameLength)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateBorrower checks the descriptive borrower fields.
func ValidateBorrower(b Borrower) error {
	if b.Age < 0 || b.Age > MaxBorrowerAge {
		return fmt.Errorf("%w: borrower age must be between 0 and %d", ErrInvalidInput, MaxBorrowerAge)
	}
	if b.Deposit.IsNegative() {
		return fmt.Errorf("%w: deposit cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
