package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo implements CreditNoteRepository (usable with pool or tx).
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository builds the credit note adapter. Pass a pool or a tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

// Create persists the credit note header.
func (r *CreditNoteRepo) Create(note *entity.CreditNote) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	query := `
		INSERT INTO credit_notes (id, company_id, customer_id, original_invoice_id, number, date,
		                          currency, tax_mode, reason_code, reason,
		                          net_total, tax_total, excise_total, grand_total,
		                          efris_status, efris_doc, efris_errors,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		note.ID, note.CompanyID, note.CustomerID, nullIfEmpty(note.OriginalInvoiceID),
		note.Number, note.Date,
		note.Currency, note.TaxMode, note.ReasonCode, note.Reason,
		note.NetTotal, note.TaxTotal, note.ExciseTotal, note.GrandTotal,
		note.EFRISStatus, nullIfEmpty(note.EFRISDoc), nullIfEmpty(note.EFRISErrors),
		note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("credit note number already exists: %w", err)
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

// CreateLine persists one credit note line.
func (r *CreditNoteRepo) CreateLine(line *entity.CreditNoteLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO credit_note_lines (id, credit_note_id, invoice_line_id, product_id,
		                               original_qty, quantity, unit_price, tax_rate_id,
		                               subtotal, tax_amount, total, restock, warehouse_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CreditNoteID, nullIfEmpty(line.InvoiceLineID), line.ProductID,
		line.OriginalQty, line.Quantity, line.UnitPrice, nullIfEmpty(line.TaxRateID),
		line.Subtotal, line.TaxAmount, line.Total, line.Restock, nullIfEmpty(line.WarehouseID),
	)
	if err != nil {
		return fmt.Errorf("insert credit note line: %w", err)
	}
	return nil
}

// Update writes the EFRIS lifecycle fields of the credit note.
func (r *CreditNoteRepo) Update(note *entity.CreditNote) error {
	query := `
		UPDATE credit_notes
		SET efris_status = $2,
		    efris_doc    = COALESCE($3, efris_doc),
		    efris_errors = $4,
		    updated_at   = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		note.ID,
		note.EFRISStatus,
		nullIfEmpty(note.EFRISDoc),
		nullIfEmpty(note.EFRISErrors),
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit note: %w", err)
	}
	return nil
}

// GetByID returns a full credit note by ID.
func (r *CreditNoteRepo) GetByID(id string) (*entity.CreditNote, error) {
	query := creditNoteSelect + ` WHERE id = $1`
	return scanCreditNote(r.q.QueryRow(context.Background(), query, id), "get credit note")
}

// GetLinesByCreditNoteID returns the lines of a credit note in insertion order.
func (r *CreditNoteRepo) GetLinesByCreditNoteID(creditNoteID string) ([]*entity.CreditNoteLine, error) {
	query := `
		SELECT id, credit_note_id, invoice_line_id, product_id,
		       original_qty, quantity, unit_price, tax_rate_id,
		       subtotal, tax_amount, total, restock, warehouse_id
		FROM credit_note_lines WHERE credit_note_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, creditNoteID)
	if err != nil {
		return nil, fmt.Errorf("list credit note lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.CreditNoteLine
	for rows.Next() {
		var l entity.CreditNoteLine
		var invoiceLineID, taxRateID, warehouseID *string
		if err := rows.Scan(
			&l.ID, &l.CreditNoteID, &invoiceLineID, &l.ProductID,
			&l.OriginalQty, &l.Quantity, &l.UnitPrice, &taxRateID,
			&l.Subtotal, &l.TaxAmount, &l.Total, &l.Restock, &warehouseID,
		); err != nil {
			return nil, fmt.Errorf("scan credit note line: %w", err)
		}
		l.InvoiceLineID = derefStr(invoiceLineID)
		l.TaxRateID = derefStr(taxRateID)
		l.WarehouseID = derefStr(warehouseID)
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByCompany returns the credit notes of a company, newest first.
func (r *CreditNoteRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.CreditNote, error) {
	query := creditNoteSelect + ` WHERE company_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()

	var notes []*entity.CreditNote
	for rows.Next() {
		note, err := scanCreditNote(rows, "scan credit note")
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// ExistsForInvoice reports whether any credit note references the invoice.
func (r *CreditNoteRepo) ExistsForInvoice(invoiceID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM credit_notes WHERE original_invoice_id = $1)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check credit note for invoice: %w", err)
	}
	return exists, nil
}

const creditNoteSelect = `
	SELECT id, company_id, customer_id, original_invoice_id, number, date,
	       currency, tax_mode, reason_code, reason,
	       net_total, tax_total, excise_total, grand_total,
	       efris_status, efris_doc, efris_errors,
	       created_at, updated_at
	FROM credit_notes`

func scanCreditNote(row interface{ Scan(dest ...any) error }, op string) (*entity.CreditNote, error) {
	var n entity.CreditNote
	var originalInvoiceID, efrisDoc, efrisErrors *string
	err := row.Scan(
		&n.ID, &n.CompanyID, &n.CustomerID, &originalInvoiceID, &n.Number, &n.Date,
		&n.Currency, &n.TaxMode, &n.ReasonCode, &n.Reason,
		&n.NetTotal, &n.TaxTotal, &n.ExciseTotal, &n.GrandTotal,
		&n.EFRISStatus, &efrisDoc, &efrisErrors,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.OriginalInvoiceID = derefStr(originalInvoiceID)
	n.EFRISDoc = derefStr(efrisDoc)
	n.EFRISErrors = derefStr(efrisErrors)
	return &n, nil
}
