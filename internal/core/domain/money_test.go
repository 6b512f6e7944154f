package domain_test

import (
	"testing"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := domain.NewMoney(60000, "USD")
	b := domain.NewMoney(40000, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), sum.MinorUnits)
	assert.Equal(t, "USD", sum.Currency)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), diff.MinorUnits)

	cmp, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := domain.NewMoney(100, "USD")
	eur := domain.NewMoney(100, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = usd.Sub(eur)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = usd.Cmp(eur)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	// Equality across currencies is simply false, not an error.
	assert.False(t, usd.Equal(eur))
}

func TestMoneyFromDecimalBankersRounding(t *testing.T) {
	cases := []struct {
		in       string
		currency string
		want     int64
	}{
		{"1000.00", "USD", 100000},
		{"0.125", "USD", 12},  // rounds to even
		{"0.135", "USD", 14},  // rounds to even
		{"0.115", "USD", 12},  // rounds to even
		{"100.5", "JPY", 100}, // zero-decimal currency, rounds to even
		{"101.5", "JPY", 102},
		{"1.2345", "KWD", 1234}, // three-decimal currency
		{"-0.125", "USD", -12},
	}

	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		got := domain.MoneyFromDecimal(d, tc.currency)
		assert.Equal(t, tc.want, got.MinorUnits, "input %s %s", tc.in, tc.currency)
		assert.Equal(t, tc.currency, got.Currency)
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	m := domain.NewMoney(123456, "USD")
	assert.Equal(t, "1234.56", m.Decimal().StringFixed(2))
	assert.Equal(t, "1234.56 USD", m.String())

	jpy := domain.NewMoney(500, "JPY")
	assert.Equal(t, "500", jpy.Decimal().StringFixed(0))
}

func TestClassifyPayment(t *testing.T) {
	assert.Equal(t, domain.ReconMatched, domain.ClassifyPayment(100000, 100000))
	assert.Equal(t, domain.ReconUnderpaid, domain.ClassifyPayment(50000, 30000))
	assert.Equal(t, domain.ReconOverpaid, domain.ClassifyPayment(50000, 60000))
	assert.Equal(t, domain.ReconUnmatched, domain.ClassifyPayment(50000, 0))
}
