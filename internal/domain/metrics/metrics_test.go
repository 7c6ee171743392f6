package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"broilerfarm/internal/core/types"
)

// assertMoney compares decimals by value, ignoring exponent representation.
func assertMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, got.Equal(types.MustMoney(want)), "want %s, got %s", want, got.String())
}

func TestMortalityRate(t *testing.T) {
	tests := []struct {
		name           string
		totalMortality int
		initialTotal   int
		want           string
	}{
		{"ten of 510", 10, 510, "1.96"},
		{"zero mortality", 0, 510, "0"},
		{"all dead", 510, 510, "100"},
		{"empty batch", 5, 0, "0"},
		{"half rounds up", 1, 800, "0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, MortalityRate(tt.totalMortality, tt.initialTotal))
		})
	}
}

func TestFeedConversionRatio(t *testing.T) {
	tests := []struct {
		name         string
		feedKg       float64
		avgWeightKg  float64
		currentCount int
		want         string
	}{
		{"25kg over 500 birds at 2.5kg", 25, 2.5, 500, "0.02"},
		{"zero weight", 25, 0, 500, "0"},
		{"zero count", 25, 2.5, 0, "0"},
		{"typical grow-out", 1800, 2.2, 480, "1.70"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeedConversionRatio(
				types.NewQuantityFromFloat64(tt.feedKg),
				types.NewQuantityFromFloat64(tt.avgWeightKg),
				tt.currentCount,
			)
			assertMoney(t, tt.want, got)
		})
	}
}

func TestEstimatedSalesRevenue(t *testing.T) {
	// 510 birds at 6.00 with 5% shrink
	assertMoney(t, "2907.00", EstimatedSalesRevenue(510, types.MustMoney("6.00")))

	assert.True(t, EstimatedSalesRevenue(0, types.MustMoney("6.00")).IsZero())
	assert.True(t, EstimatedSalesRevenue(-1, types.MustMoney("6.00")).IsZero())
}

func TestEstimatedProfitLoss(t *testing.T) {
	revenue := types.MustMoney("2907.00")
	assertMoney(t, "2357.00", EstimatedProfitLoss(revenue, types.MustMoney("0.50"), 500, types.MustMoney("300")))

	// Loss-making batch goes negative, not clamped
	assertMoney(t, "-450.00", EstimatedProfitLoss(types.MustMoney("100"), types.MustMoney("0.50"), 500, types.MustMoney("300")))
}

func TestSaleTotal(t *testing.T) {
	assertMoney(t, "300.00", SaleTotal(50, types.MustMoney("6.00")))
	assertMoney(t, "16.25", SaleTotal(5, types.MustMoney("3.25")))
}

func TestBalanceDueAndPaymentStatus(t *testing.T) {
	total := types.MustMoney("300")

	tests := []struct {
		name       string
		received   string
		wantDue    string
		wantStatus PaymentStatus
	}{
		{"partial payment", "150", "150", PaymentPartiallyPaid},
		{"fully paid", "300", "0", PaymentPaid},
		{"overpaid clamps to zero", "350", "0", PaymentPaid},
		{"nothing received", "0", "300", PaymentUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received := types.MustMoney(tt.received)
			assertMoney(t, tt.wantDue, BalanceDue(total, received))
			assert.Equal(t, tt.wantStatus, PaymentStatusFor(total, received))
		})
	}
}

func TestActualProfitLoss(t *testing.T) {
	got := ActualProfitLoss(
		types.MustMoney("3000"),
		types.MustMoney("250"),
		types.MustMoney("1200"),
		types.MustMoney("180.50"),
	)
	assertMoney(t, "1369.50", got)
}
