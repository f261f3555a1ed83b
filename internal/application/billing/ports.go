package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// BillingTxRunner executes a function inside a transaction spanning the
// inventory and billing repositories, so an invoice and its stock movements
// commit or roll back together.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		creditNoteRepo repository.CreditNoteRepository,
	) error) error
}

// InventoryUseCase is the billing-side view of the inventory engine. Both
// methods run against the caller's transactional repositories; an error
// (for example ErrInsufficientStock) rolls the whole document back.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		product *entity.Product,
		warehouseID, userID string,
		quantity decimal.Decimal,
		now time.Time,
		transactionID string,
	) error
	RegisterINInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		product *entity.Product,
		warehouseID, userID string,
		quantity decimal.Decimal,
		now time.Time,
		transactionID string,
	) error
}

// InvoiceLineForPDF pairs a persisted line with display data the PDF needs.
type InvoiceLineForPDF struct {
	Line        entity.InvoiceLine
	ProductName string
}

// InvoicePDFGenerator renders the printable representation of a fiscalized
// invoice.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		inv *entity.Invoice,
		company *entity.Company,
		customer *entity.Customer,
		lines []InvoiceLineForPDF,
	) ([]byte, error)
}
