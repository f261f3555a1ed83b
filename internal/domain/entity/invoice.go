package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EFRIS lifecycle states for fiscal documents (invoices and credit notes).
const (
	EFRISStatusDraft           = "DRAFT"            // saved to reserve ID and number
	EFRISStatusReady           = "READY"            // fiscal payload generated, pending upload
	EFRISStatusSubmitted       = "SUBMITTED"        // sent to URA, response pending
	EFRISStatusAccepted        = "ACCEPTED"         // FDN assigned by URA
	EFRISStatusRejected        = "REJECTED"         // rejected by URA with errors
	EFRISStatusErrorGeneration = "ERROR_GENERATION" // payload generation failed
)

// Tax modes for a document. One mode per document, shared by all its lines.
const (
	TaxModeExclusive = "EXCLUSIVE"
	TaxModeInclusive = "INCLUSIVE"
)

// Invoice is the header of a sales invoice. Money fields are document
// aggregates computed by the tax engine over the lines; NetTotal excludes
// VAT and excise, GrandTotal is what the customer pays.
type Invoice struct {
	ID          string
	CompanyID   string
	CustomerID  string
	WarehouseID string
	Number      string
	Date        time.Time
	Currency    string // UGX unless overridden
	TaxMode     string // EXCLUSIVE | INCLUSIVE
	PayMode     string // EFRIS payWay dictionary code
	Remarks     string
	NetTotal    decimal.Decimal
	TaxTotal    decimal.Decimal // VAT
	ExciseTotal decimal.Decimal
	GrandTotal  decimal.Decimal
	EFRISStatus string
	FDN         string // Fiscal Document Number assigned by URA
	VerifyCode  string // anti-fake verification code printed on the invoice
	QRCode      string
	EFRISDoc    string // generated fiscal payload (JSON), kept for audit and resubmission
	EFRISErrors string // rejection messages from URA (empty if none)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
