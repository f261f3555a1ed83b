package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
	infraefris "github.com/kmuwanga/billing-api/internal/infrastructure/efris"
	"github.com/kmuwanga/billing-api/pkg/logger"
)

// EFRISConfig controls fiscalization behavior.
//
//   - Env "dev" or "development": the payload is generated and the document
//     immediately fiscalized with a mock FDN, so the full lifecycle can be
//     exercised without URA connectivity.
//   - anything else: the payload is generated and the document parked in
//     READY for the submission worker.
//
// An empty TIN disables the orchestrator entirely; documents stay DRAFT.
type EFRISConfig struct {
	TIN      string
	DeviceNo string
	BranchID string
	Env      string
}

func (c EFRISConfig) devMode() bool {
	return c.Env == "dev" || c.Env == "development"
}

// EFRISOrchestrator drives the fiscal document lifecycle
//
//	DRAFT -> READY -> SUBMITTED -> ACCEPTED | REJECTED
//
// after a document is committed. It always runs detached from the HTTP
// request (ProcessInvoiceAsync / ProcessCreditNoteAsync) and always
// finishes by persisting a terminal or parked status, ERROR_GENERATION
// included.
type EFRISOrchestrator struct {
	invoiceRepo    repository.InvoiceRepository
	creditNoteRepo repository.CreditNoteRepository
	companyRepo    repository.CompanyRepository
	customerRepo   repository.CustomerRepository
	productRepo    repository.ProductRepository
	builder        *infraefris.PayloadBuilder
	cfg            EFRISConfig
	log            *logger.Logger
}

func NewEFRISOrchestrator(
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	builder *infraefris.PayloadBuilder,
	cfg EFRISConfig,
	log *logger.Logger,
) *EFRISOrchestrator {
	return &EFRISOrchestrator{
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		companyRepo:    companyRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		builder:        builder,
		cfg:            cfg,
		log:            log,
	}
}

// ProcessInvoiceAsync fiscalizes an invoice in its own goroutine.
// invoiceID must reference an already committed DRAFT invoice.
func (o *EFRISOrchestrator) ProcessInvoiceAsync(invoiceID string) {
	go o.processInvoice(invoiceID)
}

// ProcessCreditNoteAsync fiscalizes a credit note in its own goroutine.
func (o *EFRISOrchestrator) ProcessCreditNoteAsync(creditNoteID string) {
	go o.processCreditNote(creditNoteID)
}

func (o *EFRISOrchestrator) processInvoice(invoiceID string) {
	log := o.log.With().Str("invoice_id", invoiceID).Logger()

	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		log.Error().Err(err).Msg("efris: invoice not found")
		return
	}
	if inv.EFRISStatus != entity.EFRISStatusDraft {
		log.Warn().Str("status", inv.EFRISStatus).Msg("efris: unexpected status, skipping")
		return
	}

	markError := func(step string, cause error) {
		inv.EFRISStatus = entity.EFRISStatusErrorGeneration
		inv.EFRISErrors = fmt.Sprintf("%s: %v", step, cause)
		inv.UpdatedAt = time.Now()
		if uerr := o.invoiceRepo.Update(inv); uerr != nil {
			log.Error().Err(uerr).Msg("efris: could not persist ERROR_GENERATION")
		}
		log.Error().Err(cause).Str("step", step).Msg("efris: generation failed")
	}

	if o.cfg.TIN == "" {
		log.Debug().Msg("efris: no TIN configured, invoice stays in DRAFT")
		return
	}

	company, err := o.companyRepo.GetByID(inv.CompanyID)
	if err != nil || company == nil {
		markError("fetch-company", fmt.Errorf("company %s: %v", inv.CompanyID, err))
		return
	}
	customer, err := o.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		markError("fetch-customer", fmt.Errorf("customer %s: %v", inv.CustomerID, err))
		return
	}
	lines, err := o.invoiceRepo.GetLinesByInvoiceID(inv.ID)
	if err != nil || len(lines) == 0 {
		markError("fetch-lines", fmt.Errorf("lines for %s: %v", inv.ID, err))
		return
	}

	inputs := make([]infraefris.LineInput, 0, len(lines))
	for _, l := range lines {
		product, err := o.productRepo.GetByID(l.ProductID)
		if err != nil || product == nil {
			markError("fetch-product", fmt.Errorf("product %s: %v", l.ProductID, err))
			return
		}
		inputs = append(inputs, infraefris.LineInput{Line: l, Product: product})
	}

	payload, err := o.builder.BuildInvoice(&infraefris.InvoiceBuildContext{
		Invoice:  inv,
		Company:  company,
		Customer: customer,
		Lines:    inputs,
	})
	if err != nil {
		markError("build-payload", err)
		return
	}

	inv.EFRISDoc = string(payload)
	inv.EFRISErrors = ""
	inv.EFRISStatus = entity.EFRISStatusReady
	if o.cfg.devMode() {
		o.mockFiscalize(inv)
	}
	inv.UpdatedAt = time.Now()
	if err := o.invoiceRepo.Update(inv); err != nil {
		log.Error().Err(err).Msg("efris: could not persist generated payload")
		return
	}
	log.Info().Str("status", inv.EFRISStatus).Msg("efris: invoice payload generated")
}

func (o *EFRISOrchestrator) processCreditNote(creditNoteID string) {
	log := o.log.With().Str("credit_note_id", creditNoteID).Logger()

	note, err := o.creditNoteRepo.GetByID(creditNoteID)
	if err != nil || note == nil {
		log.Error().Err(err).Msg("efris: credit note not found")
		return
	}
	if note.EFRISStatus != entity.EFRISStatusDraft {
		log.Warn().Str("status", note.EFRISStatus).Msg("efris: unexpected status, skipping")
		return
	}

	markError := func(step string, cause error) {
		note.EFRISStatus = entity.EFRISStatusErrorGeneration
		note.EFRISErrors = fmt.Sprintf("%s: %v", step, cause)
		note.UpdatedAt = time.Now()
		if uerr := o.creditNoteRepo.Update(note); uerr != nil {
			log.Error().Err(uerr).Msg("efris: could not persist ERROR_GENERATION")
		}
		log.Error().Err(cause).Str("step", step).Msg("efris: generation failed")
	}

	if o.cfg.TIN == "" {
		log.Debug().Msg("efris: no TIN configured, credit note stays in DRAFT")
		return
	}

	original, err := o.invoiceRepo.GetByID(note.OriginalInvoiceID)
	if err != nil || original == nil {
		markError("fetch-original", fmt.Errorf("invoice %s: %v", note.OriginalInvoiceID, err))
		return
	}
	company, err := o.companyRepo.GetByID(note.CompanyID)
	if err != nil || company == nil {
		markError("fetch-company", fmt.Errorf("company %s: %v", note.CompanyID, err))
		return
	}
	customer, err := o.customerRepo.GetByID(note.CustomerID)
	if err != nil || customer == nil {
		markError("fetch-customer", fmt.Errorf("customer %s: %v", note.CustomerID, err))
		return
	}
	lines, err := o.creditNoteRepo.GetLinesByCreditNoteID(note.ID)
	if err != nil || len(lines) == 0 {
		markError("fetch-lines", fmt.Errorf("lines for %s: %v", note.ID, err))
		return
	}

	inputs := make([]infraefris.CreditLineInput, 0, len(lines))
	for _, l := range lines {
		product, err := o.productRepo.GetByID(l.ProductID)
		if err != nil || product == nil {
			markError("fetch-product", fmt.Errorf("product %s: %v", l.ProductID, err))
			return
		}
		inputs = append(inputs, infraefris.CreditLineInput{Line: l, Product: product})
	}

	payload, err := o.builder.BuildCreditNote(&infraefris.CreditNoteBuildContext{
		Note:     note,
		Original: original,
		Company:  company,
		Customer: customer,
		Lines:    inputs,
	})
	if err != nil {
		markError("build-payload", err)
		return
	}

	note.EFRISDoc = string(payload)
	note.EFRISErrors = ""
	note.EFRISStatus = entity.EFRISStatusReady
	if o.cfg.devMode() {
		note.EFRISStatus = entity.EFRISStatusAccepted
	}
	note.UpdatedAt = time.Now()
	if err := o.creditNoteRepo.Update(note); err != nil {
		log.Error().Err(err).Msg("efris: could not persist generated payload")
		return
	}
	log.Info().Str("status", note.EFRISStatus).Msg("efris: credit note payload generated")
}

// mockFiscalize assigns development-mode fiscal identifiers so PDF and
// credit note flows work offline.
func (o *EFRISOrchestrator) mockFiscalize(inv *entity.Invoice) {
	inv.FDN = fmt.Sprintf("322%s", randomDigitsHex(13))
	inv.VerifyCode = randomDigitsHex(8)
	inv.QRCode = fmt.Sprintf("%s|%s|%s|%s",
		inv.FDN, inv.VerifyCode, inv.Date.Format("02/01/2006"), inv.GrandTotal.StringFixed(2))
	inv.EFRISStatus = entity.EFRISStatusAccepted
}

func randomDigitsHex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%1e9)
	}
	return hex.EncodeToString(buf)[:n]
}
