package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrWeightTooLarge   = errors.New("weight exceeds maximum allowed")
	ErrInvalidUnitPrice = errors.New("unit price must be positive")
	ErrInvalidPrecision = errors.New("number outside supported precision")
)

// Validation constants
const (
	MaxNameLength = 255
	MinNameLength = 1
	MaxAmount     = "1000000000000" // 1 trillion
	MaxWeight     = "10000000"      // 10 thousand tonnes in kg
	MaxUnitPrice  = "1000000000"

	// Exponent bounds for caller-supplied numbers.
	MaxFractionDigits = 8
	MaxExponent       = 12
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "MXN": true, "PEN": true,
	"COP": true, "CLP": true, "ARS": true, "BOB": true,
	"GTQ": true, "HNL": true, "NIO": true, "CRC": true,
	"DOP": true, "UYU": true, "PYG": true, "VES": true,
	"BRL": true, "GBP": true, "CAD": true,
}

var (
	maxAmount    = decimal.RequireFromString(MaxAmount)
	maxWeight    = decimal.RequireFromString(MaxWeight)
	maxUnitPrice = decimal.RequireFromString(MaxUnitPrice)
)

// ValidateName validates an operator, supplier, product or party name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidatePrecision rejects numbers with more than MaxFractionDigits
// fractional digits or an exponent above MaxExponent. It reads only the
// exponent, so it is safe on untrusted input and must run before any
// rounding or comparison.
func ValidatePrecision(values ...decimal.Decimal) error {
	for _, v := range values {
		if exp := v.Exponent(); exp < -MaxFractionDigits || exp > MaxExponent {
			return fmt.Errorf("%w: exponent %d outside %d..%d", ErrInvalidPrecision, exp, -MaxFractionDigits, MaxExponent)
		}
	}
	return nil
}

// ValidateAmount validates a movement, loan or initial amount.
func ValidateAmount(amount decimal.Decimal) error {
	if err := ValidatePrecision(amount); err != nil {
		return err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateNonNegativeAmount is ValidateAmount that also accepts zero,
// used for opening floats and physical counts.
func ValidateNonNegativeAmount(amount decimal.Decimal) error {
	if err := ValidatePrecision(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	return ValidateAmount(amount)
}

// ValidateWeight validates a scale reading.
func ValidateWeight(weight decimal.Decimal) error {
	if err := ValidatePrecision(weight); err != nil {
		return err
	}

	if weight.IsNegative() {
		return ErrInvalidWeight
	}

	if weight.GreaterThan(maxWeight) {
		return fmt.Errorf("%w: maximum weight is %s", ErrWeightTooLarge, MaxWeight)
	}

	return nil
}

// ValidateDeduction rejects deductions that would produce a negative net weight.
// The calculation functions do not clamp, so this check belongs to callers.
func ValidateDeduction(gross, deduction decimal.Decimal) error {
	if err := ValidateWeight(gross); err != nil {
		return err
	}
	if err := ValidateWeight(deduction); err != nil {
		return err
	}
	if deduction.GreaterThan(gross) {
		return fmt.Errorf("%w: deduction %s > gross %s", ErrDeductionExceedsGross, deduction, gross)
	}
	return nil
}

// ValidateUnitPrice validates the price per weight unit.
func ValidateUnitPrice(price decimal.Decimal) error {
	if err := ValidatePrecision(price); err != nil {
		return err
	}
	if !price.IsPositive() {
		return ErrInvalidUnitPrice
	}
	if price.GreaterThan(maxUnitPrice) {
		return fmt.Errorf("%w: maximum unit price is %s", ErrAmountTooLarge, MaxUnitPrice)
	}
	return nil
}

// ValidateRepayment rejects repayments larger than the outstanding balance.
func ValidateRepayment(balance, amount decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: balance %s, repayment %s", ErrRepaymentExceedsBalance, balance, amount)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

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
