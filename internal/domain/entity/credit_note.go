package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EFRIS refund reason codes (dictionary refundReason).
const (
	CreditReasonExpiryOrDamage = "101" // return of products due to expiry or damage
	CreditReasonCancellation   = "102" // cancellation of the purchase
	CreditReasonWrongAmount    = "103" // amount wrongly stated (price, tax or discount)
	CreditReasonWaiveOff       = "104" // partial or complete waive off after invoicing
	CreditReasonOther          = "105" // free-text reason required
)

// CreditNote is the header of a credit note. OriginalInvoiceID is empty for
// a standalone credit note (no source invoice, no quantity bound). Amounts
// are stored positive; the fiscal payload negates them.
type CreditNote struct {
	ID                string
	CompanyID         string
	CustomerID        string
	OriginalInvoiceID string
	Number            string
	Date              time.Time
	Currency          string
	TaxMode           string // inherited from the original invoice
	ReasonCode        string // see CreditReason* constants
	Reason            string // required when ReasonCode is 105
	NetTotal          decimal.Decimal
	TaxTotal          decimal.Decimal
	ExciseTotal       decimal.Decimal
	GrandTotal        decimal.Decimal
	EFRISStatus       string
	EFRISDoc          string
	EFRISErrors       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreditNoteLine reverses part of an invoice line. OriginalQty is the
// invoiced quantity (zero for standalone lines); Quantity is the credited
// quantity, bounded by OriginalQty when linked. Pricing fields are
// inherited from the source line, amounts recomputed by the engine for the
// credited quantity. Restock triggers an inventory IN movement to
// WarehouseID when the credit note is created.
type CreditNoteLine struct {
	ID            string
	CreditNoteID  string
	InvoiceLineID string // empty for standalone lines
	ProductID     string
	OriginalQty   decimal.Decimal
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TaxRateID     string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Restock       bool
	WarehouseID   string
}
