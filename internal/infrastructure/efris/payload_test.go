package efris_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/infrastructure/efris"
	pkgefris "github.com/kmuwanga/billing-api/pkg/efris"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Reference invoice
//
// Line 1 (beer, excisable): qty 10 @ 3000, subtotal 30000, VAT 18% = 5400,
// excise 500/unit = 5000, line total 40400.
// Line 2 (exempt): qty 2 @ 10000, subtotal 20000, no VAT, total 20000.
//
// Header: net 50000, VAT 5400, excise 5000, grand 60400. The summary must
// reconcile with excise on the tax side: 50000 + 10400 = 60400.
// ──────────────────────────────────────────────────────────────────────────────

func testBuilder() *efris.PayloadBuilder {
	return efris.NewPayloadBuilder(efris.Config{
		TIN:      "1000023456",
		DeviceNo: "TCS5a2ce23155",
		BranchID: "00",
	})
}

func testCompany() *entity.Company {
	return &entity.Company{
		ID:      "co-1",
		Name:    "Nile Traders Ltd",
		TIN:     "1000023456",
		Address: "Plot 12 Kampala Rd",
		Phone:   "+256700000000",
		Email:   "sales@niletraders.ug",
	}
}

func testCustomer() *entity.Customer {
	return &entity.Customer{
		ID:   "cu-1",
		Name: "Walk-in Customer",
	}
}

func referenceInvoice() (*entity.Invoice, []efris.LineInput) {
	inv := &entity.Invoice{
		ID:          "inv-1",
		Number:      "INV-2026-000041",
		Date:        time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Currency:    pkgefris.CurrencyUGX,
		PayMode:     pkgefris.PayModeCash,
		Remarks:     "counter sale",
		NetTotal:    d("50000"),
		TaxTotal:    d("5400"),
		ExciseTotal: d("5000"),
		GrandTotal:  d("60400"),
	}
	beer := &entity.Product{
		ID:          "p-beer",
		SKU:         "BEER-500",
		Name:        "Lager 500ml",
		ExciseRate:  d("500"),
		ExciseUnit:  "101",
		GoodsCode:   "22030001",
		UnitMeasure: "UN",
	}
	book := &entity.Product{
		ID:          "p-book",
		SKU:         "BOOK-01",
		Name:        "Exercise Book",
		GoodsCode:   "49030001",
		UnitMeasure: "UN",
	}
	lines := []efris.LineInput{
		{
			Line: &entity.InvoiceLine{
				ProductID:    beer.ID,
				Quantity:     d("10"),
				UnitPrice:    d("3000"),
				Subtotal:     d("30000"),
				TaxAmount:    d("5400"),
				ExciseRate:   d("500"),
				ExciseUnit:   "101",
				ExciseAmount: d("5000"),
				Total:        d("40400"),
			},
			Product: beer,
		},
		{
			Line: &entity.InvoiceLine{
				ProductID: book.ID,
				Quantity:  d("2"),
				UnitPrice: d("10000"),
				Subtotal:  d("20000"),
				TaxAmount: decimal.Zero,
				Total:     d("20000"),
			},
			Product: book,
		},
	}
	return inv, lines
}

func TestBuildInvoice_GoodsDetails(t *testing.T) {
	inv, lines := referenceInvoice()
	raw, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    lines,
	})
	require.NoError(t, err)

	upload, err := efris.ParseInvoiceUpload(raw)
	require.NoError(t, err)
	require.Len(t, upload.GoodsDetails, 2)

	beer := upload.GoodsDetails[0]
	assert.Equal(t, "Lager 500ml", beer.Item)
	assert.Equal(t, "BEER-500", beer.ItemCode)
	assert.Equal(t, "10", beer.Qty)
	// unit price is tax inclusive: 40400 / 10
	assert.Equal(t, "4040.00", beer.UnitPrice)
	assert.Equal(t, "40400.00", beer.Total)
	assert.Equal(t, "0.18", beer.TaxRate)
	assert.Equal(t, "5400.00", beer.Tax)
	assert.Equal(t, pkgefris.ExciseFlagExcise, beer.ExciseFlag)
	assert.Equal(t, pkgefris.ExciseRuleByQuantity, beer.ExciseRule)
	assert.Equal(t, "500", beer.ExciseRate)
	assert.Equal(t, "5000.00", beer.ExciseTax)
	assert.Equal(t, "101", beer.ExciseUnit)
	assert.Equal(t, "1", beer.OrderNumber)

	book := upload.GoodsDetails[1]
	assert.Equal(t, "0", book.TaxRate)
	assert.Equal(t, "0.00", book.Tax)
	assert.Equal(t, pkgefris.ExciseFlagNotExcise, book.ExciseFlag)
	assert.Empty(t, book.ExciseTax)
	assert.Equal(t, "2", book.OrderNumber)
}

func TestBuildInvoice_TaxDetailsRollup(t *testing.T) {
	inv, lines := referenceInvoice()
	raw, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    lines,
	})
	require.NoError(t, err)

	upload, err := efris.ParseInvoiceUpload(raw)
	require.NoError(t, err)
	require.Len(t, upload.TaxDetails, 3)

	std := upload.TaxDetails[0]
	assert.Equal(t, pkgefris.TaxCategoryStandard, std.TaxCategoryCode)
	assert.Equal(t, "0.18", std.TaxRate)
	assert.Equal(t, "30000.00", std.NetAmount)
	assert.Equal(t, "5400.00", std.TaxAmount)
	assert.Equal(t, "35400.00", std.GrossAmount)

	exempt := upload.TaxDetails[1]
	assert.Equal(t, pkgefris.TaxCategoryExempt, exempt.TaxCategoryCode)
	assert.Equal(t, "0", exempt.TaxRate)
	assert.Equal(t, "20000.00", exempt.NetAmount)
	assert.Equal(t, "0.00", exempt.TaxAmount)

	excise := upload.TaxDetails[2]
	assert.Equal(t, pkgefris.TaxCategoryExcise, excise.TaxCategoryCode)
	assert.Equal(t, "5000.00", excise.TaxAmount)
	assert.Equal(t, "101", excise.ExciseUnit)
	assert.Equal(t, pkgefris.CurrencyUGX, excise.ExciseCurrency)
}

func TestBuildInvoice_SummaryIdentity(t *testing.T) {
	inv, lines := referenceInvoice()
	raw, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    lines,
	})
	require.NoError(t, err)

	upload, err := efris.ParseInvoiceUpload(raw)
	require.NoError(t, err)

	assert.Equal(t, "50000.00", upload.Summary.NetAmount)
	assert.Equal(t, "10400.00", upload.Summary.TaxAmount)
	assert.Equal(t, "60400.00", upload.Summary.GrossAmount)
	assert.Equal(t, "2", upload.Summary.ItemCount)

	net := d(upload.Summary.NetAmount)
	tax := d(upload.Summary.TaxAmount)
	gross := d(upload.Summary.GrossAmount)
	assert.True(t, net.Add(tax).Equal(gross), "netAmount + taxAmount must equal grossAmount")

	require.Len(t, upload.PayWay, 1)
	assert.Equal(t, pkgefris.PayModeCash, upload.PayWay[0].PaymentMode)
	assert.Equal(t, "60400.00", upload.PayWay[0].PaymentAmount)
}

func TestBuildInvoice_SellerAndBuyer(t *testing.T) {
	inv, lines := referenceInvoice()
	raw, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    lines,
	})
	require.NoError(t, err)

	upload, err := efris.ParseInvoiceUpload(raw)
	require.NoError(t, err)

	assert.Equal(t, "1000023456", upload.SellerDetails.TIN)
	assert.Equal(t, "Nile Traders Ltd", upload.SellerDetails.LegalName)
	// company without an explicit branch falls back to the device config
	assert.Equal(t, "00", upload.SellerDetails.BranchID)

	// no buyer TIN means consumer
	assert.Equal(t, "1", upload.BuyerDetails.BuyerType)

	assert.Equal(t, "TCS5a2ce23155", upload.BasicInformation.DeviceNo)
	assert.Equal(t, "2026-03-14 10:30:00", upload.BasicInformation.IssuedDate)
	assert.Equal(t, pkgefris.DataSourceWebService, upload.BasicInformation.DataSource)
}

func TestBuildInvoice_BusinessBuyerType(t *testing.T) {
	inv, lines := referenceInvoice()
	customer := testCustomer()
	customer.TIN = "1000099887"

	raw, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: customer,
		Lines:    lines,
	})
	require.NoError(t, err)

	upload, err := efris.ParseInvoiceUpload(raw)
	require.NoError(t, err)
	assert.Equal(t, "0", upload.BuyerDetails.BuyerType)
	assert.Equal(t, "1000099887", upload.BuyerDetails.BuyerTin)
}

func TestBuildInvoice_RejectsEmptyLines(t *testing.T) {
	inv, _ := referenceInvoice()
	_, err := testBuilder().BuildInvoice(&efris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  testCompany(),
		Customer: testCustomer(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no lines")
}

// ──────────────────────────────────────────────────────────────────────────────
// Credit note: partial reversal of the exempt line, 1 of 2 units.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildCreditNote_NegatedAmounts(t *testing.T) {
	original, _ := referenceInvoice()
	original.FDN = "322000012345678"

	note := &entity.CreditNote{
		ID:                "cn-1",
		OriginalInvoiceID: original.ID,
		Number:            "CN-2026-000003",
		Date:              time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC),
		Currency:          pkgefris.CurrencyUGX,
		ReasonCode:        pkgefris.RefundReasonCancellation,
		NetTotal:          d("10000"),
		TaxTotal:          decimal.Zero,
		ExciseTotal:       decimal.Zero,
		GrandTotal:        d("10000"),
	}
	book := &entity.Product{
		ID:          "p-book",
		SKU:         "BOOK-01",
		Name:        "Exercise Book",
		GoodsCode:   "49030001",
		UnitMeasure: "UN",
	}
	lines := []efris.CreditLineInput{{
		Line: &entity.CreditNoteLine{
			ProductID:   book.ID,
			OriginalQty: d("2"),
			Quantity:    d("1"),
			UnitPrice:   d("10000"),
			Subtotal:    d("10000"),
			TaxAmount:   decimal.Zero,
			Total:       d("10000"),
		},
		Product: book,
	}}

	raw, err := testBuilder().BuildCreditNote(&efris.CreditNoteBuildContext{
		Note:     note,
		Original: original,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    lines,
	})
	require.NoError(t, err)

	var app efris.CreditNoteApplication
	require.NoError(t, json.Unmarshal(raw, &app))

	assert.Equal(t, "322000012345678", app.OldInvoiceNo)
	assert.Equal(t, pkgefris.ApplyCategoryCreditNote, app.InvoiceApplyCategoryCode)
	assert.Equal(t, pkgefris.RefundReasonCancellation, app.ReasonCode)

	require.Len(t, app.GoodsDetails, 1)
	row := app.GoodsDetails[0]
	assert.Equal(t, "-1", row.Qty)
	assert.Equal(t, "10000.00", row.UnitPrice) // unit price stays positive
	assert.Equal(t, "-10000.00", row.Total)
	assert.Equal(t, "0.00", row.Tax)

	assert.Equal(t, "-10000.00", app.Summary.NetAmount)
	assert.Equal(t, "0.00", app.Summary.TaxAmount)
	assert.Equal(t, "-10000.00", app.Summary.GrossAmount)

	require.Len(t, app.PayWay, 1)
	assert.Equal(t, pkgefris.PayModeCredit, app.PayWay[0].PaymentMode)
	assert.Equal(t, "-10000.00", app.PayWay[0].PaymentAmount)
}

func TestBuildCreditNote_RequiresFiscalizedOriginal(t *testing.T) {
	original, _ := referenceInvoice()
	original.FDN = ""

	_, err := testBuilder().BuildCreditNote(&efris.CreditNoteBuildContext{
		Note:     &entity.CreditNote{ID: "cn-1"},
		Original: original,
		Company:  testCompany(),
		Customer: testCustomer(),
		Lines:    []efris.CreditLineInput{{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no FDN")
}
