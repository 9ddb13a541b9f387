package domain

import "github.com/shopspring/decimal"

// Precision of values produced by the calculation functions.
const (
	MoneyPlaces  int32 = 2
	WeightPlaces int32 = 1
)

// ReconciliationStatus classifies a cash-drawer difference.
type ReconciliationStatus string

const (
	ReconciliationBalanced ReconciliationStatus = "balanced"
	ReconciliationSurplus  ReconciliationStatus = "surplus"
	ReconciliationShortage ReconciliationStatus = "shortage"
)

// RoundMoney rounds d to 2 fractional digits, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundWeight rounds d to 1 fractional digit, half away from zero.
func RoundWeight(d decimal.Decimal) decimal.Decimal {
	return d.Round(WeightPlaces)
}

// ExpectedBalance returns initial + inflows - outflows rounded to money precision.
func ExpectedBalance(initial, inflows, outflows decimal.Decimal) decimal.Decimal {
	return RoundMoney(initial.Add(inflows).Sub(outflows))
}

// Difference returns counted - expected rounded to money precision.
// Zero means the drawer is balanced, positive a surplus, negative a shortage.
func Difference(counted, expected decimal.Decimal) decimal.Decimal {
	return RoundMoney(counted.Sub(expected))
}

// NetWeight returns gross - deduction rounded to weight precision.
// A deduction larger than gross yields a negative result; callers validate.
func NetWeight(gross, deduction decimal.Decimal) decimal.Decimal {
	return RoundWeight(gross.Sub(deduction))
}

// TransactionTotal multiplies weight by unit price at full precision and
// rounds the product once to money precision.
func TransactionTotal(weight, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(weight.Mul(unitPrice))
}

// LoanBalanceAfter returns the balance after a disbursement (current + amount)
// or a repayment (current - amount), rounded to money precision.
// No floor is applied; over-repayment produces a negative balance.
func LoanBalanceAfter(current, amount decimal.Decimal, isDisbursement bool) decimal.Decimal {
	if isDisbursement {
		return RoundMoney(current.Add(amount))
	}
	return RoundMoney(current.Sub(amount))
}

// ClassifyDifference maps the sign of a reconciliation difference to a status.
func ClassifyDifference(diff decimal.Decimal) ReconciliationStatus {
	switch diff.Sign() {
	case 0:
		return ReconciliationBalanced
	case 1:
		return ReconciliationSurplus
	default:
		return ReconciliationShortage
	}
}
