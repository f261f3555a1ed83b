package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// InvoiceRepository is the persistence port for Invoice and its lines.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	// Update writes the EFRIS fields of the invoice:
	// efris_status, fdn, verify_code, qr_code, efris_doc, efris_errors.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
	// GetEFRISStatus returns only the fiscal status fields (light query for
	// frontend polling).
	GetEFRISStatus(id string) (*entity.Invoice, error)
}
