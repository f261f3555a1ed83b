package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one line of an invoice as entered by the operator.
// UnitPrice is interpreted according to the invoice tax mode: in INCLUSIVE
// mode it is the display price with tax baked in, in EXCLUSIVE mode the net
// price before tax.
type InvoiceItemRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid4"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"required"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" validate:"omitempty,oneof=AMOUNT PERCENTAGE"`
	TaxRateID    string          `json:"tax_rate_id" validate:"omitempty,uuid4"`
}

type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id" validate:"required,uuid4"`
	WarehouseID string               `json:"warehouse_id" validate:"required,uuid4"`
	TaxMode     string               `json:"tax_mode" validate:"required,oneof=EXCLUSIVE INCLUSIVE"`
	Currency    string               `json:"currency" validate:"omitempty,len=3"`
	PayMode     string               `json:"pay_mode" validate:"omitempty,oneof=101 102 103 104 105 106 107 108"`
	Remarks     string               `json:"remarks" validate:"omitempty,max=500"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DisplayRate  decimal.Decimal `json:"display_rate"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type,omitempty"`
	TaxRateID    string          `json:"tax_rate_id,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	ExciseAmount decimal.Decimal `json:"excise_amount"`
	Total        decimal.Decimal `json:"total"`
}

type InvoiceResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	CompanyID   string                `json:"company_id"`
	CustomerID  string                `json:"customer_id"`
	WarehouseID string                `json:"warehouse_id"`
	TaxMode     string                `json:"tax_mode"`
	Currency    string                `json:"currency"`
	NetTotal    decimal.Decimal       `json:"net_total"`
	TaxTotal    decimal.Decimal       `json:"tax_total"`
	ExciseTotal decimal.Decimal       `json:"excise_total"`
	GrandTotal  decimal.Decimal       `json:"grand_total"`
	EFRISStatus string                `json:"efris_status"`
	FDN         string                `json:"fdn,omitempty"`
	VerifyCode  string                `json:"verify_code,omitempty"`
	QRCode      string                `json:"qr_code,omitempty"`
	Lines       []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// PreviewInvoiceRequest computes totals for a prospective invoice without
// persisting anything or touching stock.
type PreviewInvoiceRequest struct {
	TaxMode string               `json:"tax_mode" validate:"required,oneof=EXCLUSIVE INCLUSIVE"`
	Items   []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PreviewLineResponse struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DisplayRate  decimal.Decimal `json:"display_rate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	ExciseAmount decimal.Decimal `json:"excise_amount"`
	Total        decimal.Decimal `json:"total"`
}

type PreviewInvoiceResponse struct {
	NetTotal    decimal.Decimal       `json:"net_total"`
	TaxTotal    decimal.Decimal       `json:"tax_total"`
	ExciseTotal decimal.Decimal       `json:"excise_total"`
	GrandTotal  decimal.Decimal       `json:"grand_total"`
	Lines       []PreviewLineResponse `json:"lines"`
}

// CreditItemRequest references a line of the original invoice and the
// quantity being credited from it.
type CreditItemRequest struct {
	InvoiceLineID string          `json:"invoice_line_id" validate:"required,uuid4"`
	Quantity      decimal.Decimal `json:"quantity" validate:"required"`
	Restock       bool            `json:"restock"`
	WarehouseID   string          `json:"warehouse_id" validate:"omitempty,uuid4"`
}

type CreateCreditNoteRequest struct {
	OriginalInvoiceID string              `json:"original_invoice_id" validate:"required,uuid4"`
	ReasonCode        string              `json:"reason_code" validate:"required,oneof=101 102 103 104 105"`
	Reason            string              `json:"reason" validate:"omitempty,max=500"`
	Lines             []CreditItemRequest `json:"lines" validate:"omitempty,dive"`
}

type CreditNoteLineResponse struct {
	ID            string          `json:"id"`
	InvoiceLineID string          `json:"invoice_line_id"`
	ProductID     string          `json:"product_id"`
	OriginalQty   decimal.Decimal `json:"original_qty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Restock       bool            `json:"restock"`
}

type CreditNoteResponse struct {
	ID                string                   `json:"id"`
	Number            string                   `json:"number"`
	OriginalInvoiceID string                   `json:"original_invoice_id"`
	ReasonCode        string                   `json:"reason_code"`
	NetTotal          decimal.Decimal          `json:"net_total"`
	TaxTotal          decimal.Decimal          `json:"tax_total"`
	ExciseTotal       decimal.Decimal          `json:"excise_total"`
	GrandTotal        decimal.Decimal          `json:"grand_total"`
	EFRISStatus       string                   `json:"efris_status"`
	Lines             []CreditNoteLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

// EFRISStatusResponse reports where a fiscal document sits in its
// generation lifecycle.
type EFRISStatusResponse struct {
	InvoiceID string   `json:"invoice_id"`
	Status    string   `json:"status"`
	FDN       string   `json:"fdn,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}
