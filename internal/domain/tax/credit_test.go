package tax_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/domain/tax"
)

func creditSource() tax.CreditSource {
	return tax.CreditSource{
		Quantity:  d("10"),
		UnitPrice: d("100"),
		TaxRateID: "vat-18",
		Rate:      pct("18"),
		Mode:      tax.TaxModeExclusive,
	}
}

func TestValidateCreditQty_Bounds(t *testing.T) {
	// Within the original quantity: fine.
	require.NoError(t, tax.ValidateCreditQty(d("5"), d("10")))
	require.NoError(t, tax.ValidateCreditQty(d("10"), d("10")))

	// Above it: rejected.
	err := tax.ValidateCreditQty(d("15"), d("10"))
	require.Error(t, err)
	var verr *tax.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "creditQty", verr.Field)

	// Zero or negative: always rejected.
	require.Error(t, tax.ValidateCreditQty(decimal.Zero, d("10")))
	require.Error(t, tax.ValidateCreditQty(d("-1"), d("10")))
}

// A standalone credit line (originalQty == 0) has no upper bound.
func TestValidateCreditQty_StandaloneUnbounded(t *testing.T) {
	require.NoError(t, tax.ValidateCreditQty(d("500"), decimal.Zero))
	require.Error(t, tax.ValidateCreditQty(decimal.Zero, decimal.Zero))
}

func TestBuildCreditLine_InheritsPricing(t *testing.T) {
	src := creditSource()
	cl, err := tax.BuildCreditLine(src, d("5"))
	require.NoError(t, err)

	assertMoney(t, "5.00", cl.Quantity)
	assertMoney(t, "10.00", cl.OriginalQty)
	assertMoney(t, "100.00", cl.UnitPrice, "unit price is inherited verbatim")
	assert.Equal(t, "vat-18", cl.TaxRateID)
	assert.Equal(t, tax.TaxModeExclusive, cl.Mode)
	require.NotNil(t, cl.Rate)
	assert.Equal(t, tax.RatePercentage, cl.Rate.Kind)
}

func TestBuildCreditLine_RejectsExcessQty(t *testing.T) {
	_, err := tax.BuildCreditLine(creditSource(), d("15"))
	require.Error(t, err)
	var verr *tax.ValidationError
	require.True(t, errors.As(err, &verr))
}

// The prorated line runs through ComputeLine with the credited quantity and
// produces proportional amounts.
func TestBuildCreditLine_FlowsThroughComputeLine(t *testing.T) {
	cl, err := tax.BuildCreditLine(creditSource(), d("5"))
	require.NoError(t, err)

	res, err := tax.ComputeLine(tax.LineParams{
		Quantity:  cl.Quantity,
		UnitPrice: cl.UnitPrice,
		Rate:      cl.Rate,
		Mode:      cl.Mode,
	})
	require.NoError(t, err)

	assertMoney(t, "500.00", res.Subtotal)
	assertMoney(t, "90.00", res.TaxAmount)
	assertMoney(t, "590.00", res.Total)
}

func TestCreditEntireInvoice_FullReversal(t *testing.T) {
	sources := []tax.CreditSource{
		creditSource(),
		{Quantity: d("3"), UnitPrice: d("40"), Mode: tax.TaxModeExclusive},
		{Quantity: decimal.Zero, UnitPrice: d("99"), Mode: tax.TaxModeExclusive}, // nothing to reverse
	}
	lines := tax.CreditEntireInvoice(sources)

	require.Len(t, lines, 2)
	assert.True(t, lines[0].Quantity.Equal(lines[0].OriginalQty))
	assert.True(t, lines[1].Quantity.Equal(d("3")))
}
