package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch indicates arithmetic or comparison across different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// currencyScales lists the minor-unit scale for currencies that deviate from
// the common two decimal places.
var currencyScales = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

// CurrencyScale returns the number of minor-unit decimal places for a currency code.
func CurrencyScale(currency string) int32 {
	if scale, ok := currencyScales[currency]; ok {
		return scale
	}
	return 2
}

// Money is a fixed-precision monetary amount expressed in integer minor units
// (e.g. cents) tagged with a currency code. All arithmetic is exact integer
// arithmetic; values of different currencies never mix.
type Money struct {
	MinorUnits int64  `json:"minorUnits"`
	Currency   string `json:"currency"`
}

// NewMoney builds a Money value from minor units.
func NewMoney(minorUnits int64, currency string) Money {
	return Money{MinorUnits: minorUnits, Currency: currency}
}

// MoneyFromDecimal converts a decimal amount in major units to Money using
// banker's rounding at the currency's scale.
func MoneyFromDecimal(d decimal.Decimal, currency string) Money {
	scale := CurrencyScale(currency)
	units := d.RoundBank(scale).Shift(scale).IntPart()
	return Money{MinorUnits: units, Currency: currency}
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.MinorUnits, -CurrencyScale(m.Currency))
}

// Add returns m+o. Fails with ErrCurrencyMismatch for differing currencies.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{MinorUnits: m.MinorUnits + o.MinorUnits, Currency: m.Currency}, nil
}

// Sub returns m-o. Fails with ErrCurrencyMismatch for differing currencies.
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{MinorUnits: m.MinorUnits - o.MinorUnits, Currency: m.Currency}, nil
}

// Cmp compares m against o: -1 if m<o, 0 if equal, +1 if m>o.
func (m Money) Cmp(o Money) (int, error) {
	if m.Currency != o.Currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	switch {
	case m.MinorUnits < o.MinorUnits:
		return -1, nil
	case m.MinorUnits > o.MinorUnits:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports exact equality: same currency and same minor units.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.MinorUnits == o.MinorUnits
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.MinorUnits == 0
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.MinorUnits > 0
}

func (m Money) String() string {
	return m.Decimal().StringFixed(CurrencyScale(m.Currency)) + " " + m.Currency
}
