package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},
		{"-2.345", "-2.35"},
		{"2.344", "2.34"},
		{"-2.344", "-2.34"},
		{"2.355", "2.36"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"10", "10.00"},
		{"1.9999", "2.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundMoney(d(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(MoneyPlaces))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestRoundWeight_HalfAwayFromZero(t *testing.T) {
	assert.True(t, RoundWeight(d("2.25")).Equal(d("2.3")))
	assert.True(t, RoundWeight(d("-2.25")).Equal(d("-2.3")))
	assert.True(t, RoundWeight(d("2.24")).Equal(d("2.2")))
}

func TestRounding_Idempotent(t *testing.T) {
	values := []string{"610.25", "-0.25", "0.00", "375.30", "999999999999.99"}
	for _, v := range values {
		once := RoundMoney(d(v))
		assert.True(t, RoundMoney(once).Equal(once), "rounding %s twice changed it", v)
	}

	w := RoundWeight(d("83.45"))
	assert.True(t, RoundWeight(w).Equal(w))
}

func TestExpectedBalance(t *testing.T) {
	tests := []struct {
		name                       string
		initial, inflows, outflows string
		want                       string
	}{
		{"shift scenario", "500.00", "320.50", "210.25", "610.25"},
		{"no movements", "100.00", "0", "0", "100.00"},
		{"outflows exceed", "50.00", "0", "75.10", "-25.10"},
		{"sub-cent intermediate", "0.004", "0.001", "0", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedBalance(d(tt.initial), d(tt.inflows), d(tt.outflows))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
			assert.Equal(t, -MoneyPlaces, got.Exponent())
		})
	}
}

func TestExpectedBalance_OrderIndependent(t *testing.T) {
	initial, in, out := d("1234.56"), d("789.01"), d("234.57")

	a := ExpectedBalance(initial, in, out)
	b := RoundMoney(initial.Sub(out).Add(in))
	c := RoundMoney(in.Sub(out).Add(initial))

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
}

func TestDifference(t *testing.T) {
	expected := ExpectedBalance(d("500.00"), d("320.50"), d("210.25"))

	diff := Difference(d("610.00"), expected)
	assert.True(t, diff.Equal(d("-0.25")), "got %s", diff)
	assert.Equal(t, ReconciliationShortage, ClassifyDifference(diff))

	surplus := Difference(d("611.00"), expected)
	assert.True(t, surplus.Equal(d("0.75")))
	assert.Equal(t, ReconciliationSurplus, ClassifyDifference(surplus))
}

func TestDifference_SameValueIsZero(t *testing.T) {
	for _, v := range []string{"0", "610.25", "-12.34", "1000000.01"} {
		diff := Difference(d(v), d(v))
		assert.True(t, diff.IsZero(), "Difference(%s, %s) = %s", v, v, diff)
		assert.Equal(t, ReconciliationBalanced, ClassifyDifference(diff))
	}
}

func TestNetWeight(t *testing.T) {
	assert.True(t, NetWeight(d("85.7"), d("2.3")).Equal(d("83.4")))

	// no floor at zero
	neg := NetWeight(d("2.0"), d("3.5"))
	assert.True(t, neg.Equal(d("-1.5")), "got %s", neg)

	for _, g := range []string{"85.75", "10", "0.04", "-3.25"} {
		assert.True(t, NetWeight(d(g), decimal.Zero).Equal(RoundWeight(d(g))))
	}
}

func TestTransactionTotal(t *testing.T) {
	net := NetWeight(d("85.7"), d("2.3"))
	total := TransactionTotal(net, d("4.50"))

	assert.True(t, total.Equal(d("375.30")), "got %s", total)
	assert.Equal(t, "375.30", total.StringFixed(MoneyPlaces))
}

func TestTransactionTotal_MultipliesBeforeRounding(t *testing.T) {
	weight, price := d("2.25"), d("3.333")

	fullPrecision := TransactionTotal(weight, price)
	premature := RoundMoney(RoundWeight(weight).Mul(RoundMoney(price)))

	require.True(t, fullPrecision.Equal(d("7.50")), "got %s", fullPrecision)
	assert.False(t, fullPrecision.Equal(premature),
		"premature rounding must diverge: full=%s premature=%s", fullPrecision, premature)
}

func TestLoanBalanceAfter(t *testing.T) {
	assert.True(t, LoanBalanceAfter(d("100.00"), d("50.00"), true).Equal(d("150.00")))
	assert.True(t, LoanBalanceAfter(d("150.00"), d("50.00"), false).Equal(d("100.00")))

	over := LoanBalanceAfter(d("20.00"), d("50.00"), false)
	assert.True(t, over.Equal(d("-30.00")), "over-repayment should go negative, got %s", over)

	rounded := LoanBalanceAfter(d("10.00"), d("0.005"), true)
	assert.True(t, rounded.Equal(d("10.01")), "got %s", rounded)
}

func TestCalculations_DoNotMutateInputs(t *testing.T) {
	initial, in, out := d("500.00"), d("320.50"), d("210.25")
	_ = ExpectedBalance(initial, in, out)

	assert.Equal(t, "500", initial.String())
	assert.Equal(t, "320.5", in.String())
	assert.Equal(t, "210.25", out.String())
}
