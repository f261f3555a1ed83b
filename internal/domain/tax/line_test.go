package tax_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/domain/tax"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// assertMoney compares a decimal against its expected 2-dp rendering.
func assertMoney(t *testing.T, expected string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, got.StringFixed(2), msgAndArgs...)
}

func pct(percent string) *tax.ResolvedRate {
	return &tax.ResolvedRate{Kind: tax.RatePercentage, Percent: d(percent)}
}

func fixed(amount string) *tax.ResolvedRate {
	return &tax.ResolvedRate{Kind: tax.RateFixedAmount, Amount: d(amount)}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeLine reference scenarios
//
// These vectors are the canary for the whole billing flow: invoice entry,
// credit notes and the fiscal payload all run through ComputeLine, so any
// change to rounding or discount handling must show up here first.
// ──────────────────────────────────────────────────────────────────────────────

// 10 × 100 at 18% exclusive, no discount.
func TestComputeLine_ExclusivePercentage(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:  d("10"),
		UnitPrice: d("100"),
		Rate:      pct("18"),
		Mode:      tax.TaxModeExclusive,
	})
	require.NoError(t, err)

	assertMoney(t, "1000.00", res.Subtotal)
	assertMoney(t, "180.00", res.TaxAmount)
	assertMoney(t, "1180.00", res.Total)
}

// Same line entered in INCLUSIVE mode as 118 per unit: the caller extracts
// the base price first, then ComputeLine must land on exactly the same
// numbers as the exclusive entry. This is the no-double-taxation guarantee.
func TestComputeLine_InclusiveEntryMatchesExclusive(t *testing.T) {
	rate := pct("18")
	unitPrice := tax.FromDisplayRate(d("118"), rate, tax.TaxModeInclusive, d("10"))
	assertMoney(t, "100.00", unitPrice, "118 inclusive at 18%% must extract to 100")

	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:  d("10"),
		UnitPrice: unitPrice,
		Rate:      rate,
		Mode:      tax.TaxModeInclusive,
	})
	require.NoError(t, err)

	assertMoney(t, "1000.00", res.Subtotal)
	assertMoney(t, "180.00", res.TaxAmount)
	assertMoney(t, "1180.00", res.Total)
}

// 5 × 50 with a 10% discount at 18%.
func TestComputeLine_PercentageDiscount(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:     d("5"),
		UnitPrice:    d("50"),
		Rate:         pct("18"),
		Mode:         tax.TaxModeExclusive,
		Discount:     d("10"),
		DiscountType: tax.DiscountPercentage,
	})
	require.NoError(t, err)

	assertMoney(t, "25.00", res.DiscountAmount)
	assertMoney(t, "225.00", res.Subtotal)
	assertMoney(t, "40.50", res.TaxAmount)
	assertMoney(t, "265.50", res.Total)
}

func TestComputeLine_NoRateMeansNoTax(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:  d("3"),
		UnitPrice: d("40"),
		Rate:      nil,
		Mode:      tax.TaxModeExclusive,
	})
	require.NoError(t, err)

	assertMoney(t, "120.00", res.Subtotal)
	assertMoney(t, "0.00", res.TaxAmount)
	assertMoney(t, "120.00", res.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixed-amount rates
// ──────────────────────────────────────────────────────────────────────────────

// A fixed-amount rate is a flat per-line charge: not scaled by quantity.
func TestComputeLine_FixedAmountRate(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:  d("10"),
		UnitPrice: d("100"),
		Rate:      fixed("500"),
		Mode:      tax.TaxModeExclusive,
	})
	require.NoError(t, err)

	assertMoney(t, "1000.00", res.Subtotal)
	assertMoney(t, "500.00", res.TaxAmount)
	assertMoney(t, "1500.00", res.Total)
}

// Percentage discount with a fixed-amount rate: the discount reduces the
// net subtotal only, the fixed charge is added unscaled afterwards. One
// rule, applied everywhere.
func TestComputeLine_FixedAmountRateWithPercentageDiscount(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:     d("10"),
		UnitPrice:    d("100"),
		Rate:         fixed("500"),
		Mode:         tax.TaxModeExclusive,
		Discount:     d("10"),
		DiscountType: tax.DiscountPercentage,
	})
	require.NoError(t, err)

	assertMoney(t, "900.00", res.Subtotal)
	assertMoney(t, "500.00", res.TaxAmount, "fixed tax must not be reduced by the discount")
	assertMoney(t, "1400.00", res.Total)
}

func TestComputeLine_UnknownRateKindFailsLoudly(t *testing.T) {
	_, err := tax.ComputeLine(tax.LineParams{
		Quantity:  d("1"),
		UnitPrice: d("10"),
		Rate:      &tax.ResolvedRate{Kind: tax.RateKind(99)},
		Mode:      tax.TaxModeExclusive,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, tax.ErrUnknownRateKind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Discount clamp and validation asymmetry
// ──────────────────────────────────────────────────────────────────────────────

// A flat discount larger than the line is clamped to the line, never
// rejected and never negative.
func TestComputeLine_AmountDiscountClampedToSubtotal(t *testing.T) {
	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:     d("2"),
		UnitPrice:    d("30"),
		Rate:         pct("18"),
		Mode:         tax.TaxModeExclusive,
		Discount:     d("1000"),
		DiscountType: tax.DiscountAmount,
	})
	require.NoError(t, err)

	assertMoney(t, "60.00", res.DiscountAmount, "discount must clamp to the gross subtotal")
	assertMoney(t, "0.00", res.Subtotal)
	assertMoney(t, "0.00", res.TaxAmount)
	assertMoney(t, "0.00", res.Total)
}

// Negative inputs are rejected before computation, not clamped.
func TestComputeLine_NegativeInputsRejected(t *testing.T) {
	cases := []struct {
		name  string
		p     tax.LineParams
		field string
	}{
		{"negative quantity", tax.LineParams{Quantity: d("-1"), UnitPrice: d("10")}, "quantity"},
		{"negative price", tax.LineParams{Quantity: d("1"), UnitPrice: d("-10")}, "unitPrice"},
		{"negative discount", tax.LineParams{Quantity: d("1"), UnitPrice: d("10"), Discount: d("-5"), DiscountType: tax.DiscountAmount}, "discount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tax.ComputeLine(tc.p)
			require.Error(t, err)
			var verr *tax.ValidationError
			require.True(t, errors.As(err, &verr), "must be a ValidationError")
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestComputeLine_PercentageDiscountOver100Rejected(t *testing.T) {
	_, err := tax.ComputeLine(tax.LineParams{
		Quantity:     d("1"),
		UnitPrice:    d("10"),
		Discount:     d("150"),
		DiscountType: tax.DiscountPercentage,
	})
	require.Error(t, err)
	var verr *tax.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "discount", verr.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Display price round-trip
// ──────────────────────────────────────────────────────────────────────────────

func TestDisplayRate_RoundTripInclusive(t *testing.T) {
	tolerance := d("0.01")
	prices := []string{"0", "1", "99.99", "100", "847.46", "123456.78"}
	rates := []string{"5", "10", "18", "21"}

	for _, p := range prices {
		for _, r := range rates {
			rate := pct(r)
			display := tax.ToDisplayRate(d(p), rate, tax.TaxModeInclusive, d("1"))
			back := tax.FromDisplayRate(display, rate, tax.TaxModeInclusive, d("1"))
			diff := back.Sub(d(p)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"round-trip drift for price %s at %s%%: got %s back", p, r, back)
		}
	}
}

func TestDisplayRate_ExclusiveModeIsIdentity(t *testing.T) {
	rate := pct("18")
	assertMoney(t, "100.00", tax.ToDisplayRate(d("100"), rate, tax.TaxModeExclusive, d("1")))
	assertMoney(t, "100.00", tax.FromDisplayRate(d("100"), rate, tax.TaxModeExclusive, d("1")))
}

// Fixed-amount rates spread the flat charge per unit for display; zero
// quantity must not divide.
func TestDisplayRate_FixedAmountPerUnitSpread(t *testing.T) {
	rate := fixed("50")
	display := tax.ToDisplayRate(d("100"), rate, tax.TaxModeInclusive, d("10"))
	assertMoney(t, "105.00", display)

	back := tax.FromDisplayRate(display, rate, tax.TaxModeInclusive, d("10"))
	assertMoney(t, "100.00", back)

	assertMoney(t, "100.00", tax.ToDisplayRate(d("100"), rate, tax.TaxModeInclusive, decimal.Zero),
		"zero quantity must not spread the fixed amount")
}
