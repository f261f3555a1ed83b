package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/tax"
)

func knownRates() []entity.TaxRate {
	return []entity.TaxRate{
		{ID: "vat-18", CalculationType: entity.TaxCalculationPercentage, Rate: d("18")},
		{ID: "vat-0", CalculationType: entity.TaxCalculationPercentage, Rate: d("0")},
		{ID: "levy-flat", CalculationType: entity.TaxCalculationFixedAmount, FixedAmount: d("2000")},
		{ID: "broken", CalculationType: "SOMETHING_ELSE", Rate: d("5")},
	}
}

func TestResolve_Percentage(t *testing.T) {
	r := tax.Resolve("vat-18", knownRates())
	require.NotNil(t, r)
	assert.Equal(t, tax.RatePercentage, r.Kind)
	assertMoney(t, "18.00", r.Percent)
}

func TestResolve_FixedAmount(t *testing.T) {
	r := tax.Resolve("levy-flat", knownRates())
	require.NotNil(t, r)
	assert.Equal(t, tax.RateFixedAmount, r.Kind)
	assertMoney(t, "2000.00", r.Amount)
}

// Unknown or missing IDs resolve to "no tax", never to an error: a deleted
// rate must not block invoicing.
func TestResolve_UnknownIsNil(t *testing.T) {
	assert.Nil(t, tax.Resolve("gone", knownRates()))
	assert.Nil(t, tax.Resolve("", knownRates()))
	assert.Nil(t, tax.Resolve("vat-18", nil))
}

func TestResolve_UnknownCalculationTypeIsNil(t *testing.T) {
	assert.Nil(t, tax.Resolve("broken", knownRates()))
}

// A zero percentage rate is a real rate, not "no tax": it still resolves.
func TestResolve_ZeroRateStillResolves(t *testing.T) {
	r := tax.Resolve("vat-0", knownRates())
	require.NotNil(t, r)
	assert.Equal(t, tax.RatePercentage, r.Kind)
	assert.True(t, r.Percent.IsZero())
}
