package entity

import "github.com/shopspring/decimal"

// InvoiceLine is one detail line of an invoice. UnitPrice is always the
// tax-exclusive base price; DisplayRate is the price as shown to the user
// under the document's tax mode (a projection, never a calculation input).
// Subtotal, TaxAmount and Total are the engine outputs persisted with the
// line. The Excise* fields apply only to excisable goods.
type InvoiceLine struct {
	ID             string
	InvoiceID      string
	ProductID      string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	DisplayRate    decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   string // AMOUNT | PERCENTAGE
	TaxRateID      string // empty = no tax
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	ExciseDutyCode string
	ExciseRate     decimal.Decimal // specific duty, currency per ExciseUnit
	ExciseUnit     string
	ExciseAmount   decimal.Decimal
}
