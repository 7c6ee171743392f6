// Package metrics holds the pure calculators for batch and sale derived
// values. Everything here is stateless: inputs in, rounded outputs out.
// Services must never duplicate these formulas inline.
package metrics

import (
	"github.com/shopspring/decimal"

	"broilerfarm/internal/core/types"
)

// ShrinkFactor is applied to estimated sales revenue to account for
// anticipated losses (culls, underweight birds) before sale.
var ShrinkFactor = types.MustMoney("0.95")

// PaymentStatus is the settlement state of a sale.
type PaymentStatus string

const (
	PaymentPaid          PaymentStatus = "Paid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentUnpaid        PaymentStatus = "Unpaid"
)

// MortalityRate returns cumulative mortality as a percentage of the
// initial population, rounded to 2 decimals. Zero when the batch has
// no initial population.
func MortalityRate(totalMortality, initialTotal int) types.Money {
	if initialTotal <= 0 {
		return types.Zero()
	}
	rate := decimal.NewFromInt(int64(totalMortality)).
		Div(decimal.NewFromInt(int64(initialTotal))).
		Mul(decimal.NewFromInt(100))
	return types.Round2(rate)
}

// FeedConversionRatio returns feed consumed (kg) divided by live mass
// produced (avg weight x live count), rounded to 2 decimals. Zero when
// the denominator is zero.
func FeedConversionRatio(feedConsumed, currentWeight types.Quantity, currentCount int) types.Money {
	if currentWeight.IsZero() || currentCount <= 0 {
		return types.Zero()
	}
	liveMass := decimal.NewFromInt(currentWeight.Int64Scaled()).
		Mul(decimal.NewFromInt(int64(currentCount)))
	if liveMass.IsZero() {
		return types.Zero()
	}
	fcr := decimal.NewFromInt(feedConsumed.Int64Scaled()).Div(liveMass)
	return types.Round2(fcr)
}

// EstimatedSalesRevenue projects revenue from the current live count at
// the proposed price, discounted by the shrink factor.
func EstimatedSalesRevenue(currentCount int, pricePerBird types.Money) types.Money {
	if currentCount <= 0 {
		return types.Zero()
	}
	revenue := decimal.NewFromInt(int64(currentCount)).
		Mul(pricePerBird).
		Mul(ShrinkFactor)
	return types.Round2(revenue)
}

// EstimatedProfitLoss is the budgeted margin: projected revenue minus
// chick purchase cost minus budgeted feed cost.
func EstimatedProfitLoss(estimatedRevenue, chickPrice types.Money, purchasedChickCount int, estimatedFeedCost types.Money) types.Money {
	chickCost := chickPrice.Mul(decimal.NewFromInt(int64(purchasedChickCount)))
	return types.Round2(estimatedRevenue.Sub(chickCost).Sub(estimatedFeedCost))
}

// SaleTotal is quantity times unit price, rounded to 2 decimals.
func SaleTotal(quantity int, pricePerBird types.Money) types.Money {
	return types.Round2(decimal.NewFromInt(int64(quantity)).Mul(pricePerBird))
}

// BalanceDue is the outstanding amount on a sale. Never negative: an
// overpayment settles the sale with zero due.
func BalanceDue(totalRevenue, amountReceived types.Money) types.Money {
	due := types.Round2(totalRevenue.Sub(amountReceived))
	if due.IsNegative() {
		return types.Zero()
	}
	return due
}

// PaymentStatusFor derives the tri-state settlement status.
func PaymentStatusFor(totalRevenue, amountReceived types.Money) PaymentStatus {
	switch {
	case amountReceived.GreaterThanOrEqual(totalRevenue):
		return PaymentPaid
	case amountReceived.IsPositive():
		return PaymentPartiallyPaid
	default:
		return PaymentUnpaid
	}
}

// ActualProfitLoss is the realized margin for reporting: actual revenue
// minus chick cost, feed cost, and other direct expenses.
func ActualProfitLoss(revenue, chickCost, feedCost, otherExpenses types.Money) types.Money {
	return types.Round2(revenue.Sub(chickCost).Sub(feedCost).Sub(otherExpenses))
}
