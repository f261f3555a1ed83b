package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the invoice adapter. Pass a pool or a tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice header.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, warehouse_id, number, date,
		                      currency, tax_mode, pay_mode, remarks,
		                      net_total, tax_total, excise_total, grand_total,
		                      efris_status, fdn, verify_code, qr_code, efris_doc, efris_errors,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CompanyID, invoice.CustomerID, invoice.WarehouseID,
		invoice.Number, invoice.Date,
		invoice.Currency, invoice.TaxMode, invoice.PayMode, invoice.Remarks,
		invoice.NetTotal, invoice.TaxTotal, invoice.ExciseTotal, invoice.GrandTotal,
		invoice.EFRISStatus, nullIfEmpty(invoice.FDN), nullIfEmpty(invoice.VerifyCode),
		nullIfEmpty(invoice.QRCode), nullIfEmpty(invoice.EFRISDoc), nullIfEmpty(invoice.EFRISErrors),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persists one invoice line.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, display_rate,
		                           discount, discount_type, tax_rate_id, subtotal, tax_amount, total,
		                           excise_duty_code, excise_rate, excise_unit, excise_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ProductID, line.Quantity, line.UnitPrice, line.DisplayRate,
		line.Discount, nullIfEmpty(line.DiscountType), nullIfEmpty(line.TaxRateID),
		line.Subtotal, line.TaxAmount, line.Total,
		nullIfEmpty(line.ExciseDutyCode), line.ExciseRate, nullIfEmpty(line.ExciseUnit), line.ExciseAmount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update writes the EFRIS lifecycle fields of the invoice. The non-fiscal
// fields are immutable after creation.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET efris_status = $2,
		    fdn          = COALESCE($3, fdn),
		    verify_code  = COALESCE($4, verify_code),
		    qr_code      = COALESCE($5, qr_code),
		    efris_doc    = COALESCE($6, efris_doc),
		    efris_errors = $7,
		    updated_at   = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID,
		invoice.EFRISStatus,
		nullIfEmpty(invoice.FDN),
		nullIfEmpty(invoice.VerifyCode),
		nullIfEmpty(invoice.QRCode),
		nullIfEmpty(invoice.EFRISDoc),
		nullIfEmpty(invoice.EFRISErrors),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID returns a full invoice by ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := invoiceSelect + ` WHERE id = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, id), "get invoice")
}

// GetLinesByInvoiceID returns the lines of an invoice in insertion order.
func (r *InvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price, display_rate,
		       discount, discount_type, tax_rate_id, subtotal, tax_amount, total,
		       excise_duty_code, excise_rate, excise_unit, excise_amount
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		var discountType, taxRateID, exciseDutyCode, exciseUnit *string
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.DisplayRate,
			&l.Discount, &discountType, &taxRateID, &l.Subtotal, &l.TaxAmount, &l.Total,
			&exciseDutyCode, &l.ExciseRate, &exciseUnit, &l.ExciseAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.DiscountType = derefStr(discountType)
		l.TaxRateID = derefStr(taxRateID)
		l.ExciseDutyCode = derefStr(exciseDutyCode)
		l.ExciseUnit = derefStr(exciseUnit)
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByCompany returns the invoices of a company, newest first.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := invoiceSelect + ` WHERE company_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows, "scan invoice")
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// GetEFRISStatus returns only the fiscal status fields. Light query for
// frontend polling while the orchestrator works in the background.
func (r *InvoiceRepo) GetEFRISStatus(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, efris_status, fdn, verify_code, qr_code, efris_errors
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	var fdn, verifyCode, qrCode, efrisErrors *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.EFRISStatus, &fdn, &verifyCode, &qrCode, &efrisErrors,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice status: %w", err)
	}
	inv.FDN = derefStr(fdn)
	inv.VerifyCode = derefStr(verifyCode)
	inv.QRCode = derefStr(qrCode)
	inv.EFRISErrors = derefStr(efrisErrors)
	return &inv, nil
}

const invoiceSelect = `
	SELECT id, company_id, customer_id, warehouse_id, number, date,
	       currency, tax_mode, pay_mode, remarks,
	       net_total, tax_total, excise_total, grand_total,
	       efris_status, fdn, verify_code, qr_code, efris_doc, efris_errors,
	       created_at, updated_at
	FROM invoices`

func scanInvoice(row interface{ Scan(dest ...any) error }, op string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var fdn, verifyCode, qrCode, efrisDoc, efrisErrors *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.WarehouseID, &inv.Number, &inv.Date,
		&inv.Currency, &inv.TaxMode, &inv.PayMode, &inv.Remarks,
		&inv.NetTotal, &inv.TaxTotal, &inv.ExciseTotal, &inv.GrandTotal,
		&inv.EFRISStatus, &fdn, &verifyCode, &qrCode, &efrisDoc, &efrisErrors,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv.FDN = derefStr(fdn)
	inv.VerifyCode = derefStr(verifyCode)
	inv.QRCode = derefStr(qrCode)
	inv.EFRISDoc = derefStr(efrisDoc)
	inv.EFRISErrors = derefStr(efrisErrors)
	return &inv, nil
}
