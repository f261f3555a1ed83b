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
// ComputeExcise reference vector
//
// gross 1000, qty 2, VAT 18%, excise 100/unit:
//
//	beforeVAT = 1000 / 1.18 = 847.4576…  → 847.46
//	net       = 847.4576… - 100         → 747.46
//	vat       = 847.4576… * 0.18        → 152.54
//
// and the totals must reconcile exactly to lineTotal 2000.00 because the
// fiscal summary is cross-validated against that identity.
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeExcise_ReferenceVector(t *testing.T) {
	bl, err := tax.ComputeExcise(d("1000"), d("2"), d("18"), d("100"))
	require.NoError(t, err)

	assert.True(t, bl.HasExcise)
	assertMoney(t, "747.46", bl.NetPerUnit)
	assertMoney(t, "100.00", bl.ExcisePerUnit)
	assertMoney(t, "152.54", bl.VATPerUnit)

	assertMoney(t, "2000.00", bl.LineTotal)
	assertMoney(t, "200.00", bl.ExciseTotal)
	assertMoney(t, "305.08", bl.VATTotal)
	assertMoney(t, "1494.92", bl.NetTotal)

	sum := bl.NetTotal.Add(bl.ExciseTotal).Add(bl.VATTotal)
	assert.True(t, sum.Equal(bl.LineTotal),
		"net+excise+vat must equal lineTotal exactly, got %s vs %s", sum, bl.LineTotal)
}

// VAT is computed on net+excise, not on net alone. With gross 118, VAT 18%
// and excise 10, VAT per unit is 18 (18% of 100), not 16.20 (18% of 90).
func TestComputeExcise_VATOnNetPlusExcise(t *testing.T) {
	bl, err := tax.ComputeExcise(d("118"), d("1"), d("18"), d("10"))
	require.NoError(t, err)

	assertMoney(t, "18.00", bl.VATPerUnit)
	assertMoney(t, "90.00", bl.NetPerUnit)
	assertMoney(t, "10.00", bl.ExcisePerUnit)
}

func TestComputeExcise_NoExciseRate(t *testing.T) {
	bl, err := tax.ComputeExcise(d("118"), d("3"), d("18"), decimal.Zero)
	require.NoError(t, err)

	assert.False(t, bl.HasExcise)
	assertMoney(t, "0.00", bl.ExcisePerUnit)
	assertMoney(t, "100.00", bl.NetPerUnit, "without excise, net equals the before-VAT price")
	assertMoney(t, "354.00", bl.LineTotal)
}

func TestComputeExcise_ZeroVAT(t *testing.T) {
	bl, err := tax.ComputeExcise(d("500"), d("2"), decimal.Zero, d("50"))
	require.NoError(t, err)

	assertMoney(t, "0.00", bl.VATPerUnit)
	assertMoney(t, "450.00", bl.NetPerUnit, "zero VAT leaves gross as the before-VAT price")
	assertMoney(t, "100.00", bl.ExciseTotal)
	assertMoney(t, "900.00", bl.NetTotal)
}

// The reconciliation identity holds across awkward inputs, not just round
// numbers.
func TestComputeExcise_IdentityHoldsAcrossInputs(t *testing.T) {
	cases := []struct {
		gross, qty, vat, excise string
	}{
		{"0", "0", "0", "0"},
		{"0.01", "1", "18", "0"},
		{"999.99", "7", "18", "130"},
		{"1234.56", "3", "16", "0.5"},
		{"1000000", "250", "18", "650"},
		{"33.33", "13", "10", "1.11"},
	}
	for _, tc := range cases {
		bl, err := tax.ComputeExcise(d(tc.gross), d(tc.qty), d(tc.vat), d(tc.excise))
		require.NoError(t, err, "gross=%s qty=%s vat=%s excise=%s", tc.gross, tc.qty, tc.vat, tc.excise)
		require.NoError(t, bl.CheckIdentity())

		sum := bl.NetTotal.Add(bl.ExciseTotal).Add(bl.VATTotal)
		assert.True(t, sum.Equal(bl.LineTotal),
			"identity must be exact for gross=%s qty=%s: %s vs %s", tc.gross, tc.qty, sum, bl.LineTotal)
	}
}

func TestComputeExcise_NegativeInputsRejected(t *testing.T) {
	_, err := tax.ComputeExcise(d("-1"), d("1"), d("18"), d("0"))
	var verr *tax.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = tax.ComputeExcise(d("100"), d("1"), d("18"), d("-5"))
	require.True(t, errors.As(err, &verr))
}

func TestCheckIdentity_DetectsMismatch(t *testing.T) {
	bl := tax.ExciseLine{
		NetTotal:    d("100"),
		ExciseTotal: d("20"),
		VATTotal:    d("18"),
		LineTotal:   d("200"), // off by 62
	}
	err := bl.CheckIdentity()
	require.Error(t, err)
	assert.ErrorIs(t, err, tax.ErrBreakdownMismatch)
}

func TestAggregateExcise_SumsDocumentTotals(t *testing.T) {
	l1, err := tax.ComputeExcise(d("1000"), d("2"), d("18"), d("100"))
	require.NoError(t, err)
	l2, err := tax.ComputeExcise(d("118"), d("5"), d("18"), decimal.Zero)
	require.NoError(t, err)

	s := tax.AggregateExcise([]tax.ExciseLine{l1, l2})

	assertMoney(t, "2590.00", s.GrossTotal)
	assertMoney(t, "200.00", s.ExciseTotal)
	assertMoney(t, "395.08", s.VATTotal)
	assertMoney(t, "1994.92", s.NetTotal)

	sum := s.NetTotal.Add(s.ExciseTotal).Add(s.VATTotal)
	assert.True(t, sum.Equal(s.GrossTotal), "document aggregates must keep the identity")
}
