package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// CreditNoteRepository is the persistence port for CreditNote and its lines.
type CreditNoteRepository interface {
	Create(note *entity.CreditNote) error
	CreateLine(line *entity.CreditNoteLine) error
	Update(note *entity.CreditNote) error
	GetByID(id string) (*entity.CreditNote, error)
	GetLinesByCreditNoteID(creditNoteID string) ([]*entity.CreditNoteLine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.CreditNote, error)
	// ExistsForInvoice reports whether a credit note already references the
	// invoice; URA rejects a second credit note against the same invoice
	// while one is outstanding.
	ExistsForInvoice(invoiceID string) (bool, error)
}
