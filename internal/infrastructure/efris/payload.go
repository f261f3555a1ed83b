package efris

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	pkgefris "github.com/kmuwanga/billing-api/pkg/efris"
)

const issuedDateLayout = "2006-01-02 15:04:05"

// Config identifies the EFRIS device registration used on every payload.
type Config struct {
	TIN      string
	DeviceNo string
	BranchID string
}

// PayloadBuilder renders invoices and credit notes into the JSON bodies of
// the URA web-service interfaces (T109 invoice upload, T110 credit note
// application).
type PayloadBuilder struct {
	cfg Config
}

func NewPayloadBuilder(cfg Config) *PayloadBuilder {
	return &PayloadBuilder{cfg: cfg}
}

// LineInput pairs a persisted invoice line with its product master data.
type LineInput struct {
	Line    *entity.InvoiceLine
	Product *entity.Product
}

// InvoiceBuildContext carries everything BuildInvoice needs.
type InvoiceBuildContext struct {
	Invoice  *entity.Invoice
	Company  *entity.Company
	Customer *entity.Customer
	Lines    []LineInput
}

// CreditLineInput pairs a credit note line with its product master data.
type CreditLineInput struct {
	Line    *entity.CreditNoteLine
	Product *entity.Product
}

// CreditNoteBuildContext carries everything BuildCreditNote needs.
type CreditNoteBuildContext struct {
	Note     *entity.CreditNote
	Original *entity.Invoice
	Company  *entity.Company
	Customer *entity.Customer
	Lines    []CreditLineInput
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// rateFraction derives the effective VAT rate of a line as the decimal
// fraction string URA expects ("0.18"). Derived from the persisted amounts
// so the payload always reconciles with what was charged.
func rateFraction(subtotal, taxAmount decimal.Decimal) string {
	if subtotal.IsZero() || taxAmount.IsZero() {
		return "0"
	}
	return taxAmount.Div(subtotal).Round(4).String()
}

// BuildInvoice renders the T109 invoice upload body.
func (b *PayloadBuilder) BuildInvoice(ctx *InvoiceBuildContext) ([]byte, error) {
	inv := ctx.Invoice
	if inv == nil || ctx.Company == nil || ctx.Customer == nil {
		return nil, fmt.Errorf("efris: incomplete build context")
	}
	if len(ctx.Lines) == 0 {
		return nil, fmt.Errorf("efris: invoice %s has no lines", inv.ID)
	}

	goods, err := b.goodsRows(ctx.Lines, inv.Currency, false)
	if err != nil {
		return nil, err
	}
	taxRows := b.taxRows(ctx.Lines, inv, false)

	// Summary identity: netAmount + taxAmount == grossAmount, with excise
	// counted on the tax side.
	taxSide := inv.TaxTotal.Add(inv.ExciseTotal)
	netSide := inv.GrandTotal.Sub(taxSide)

	upload := InvoiceUpload{
		SellerDetails:    b.sellerDetails(ctx.Company),
		BasicInformation: b.basicInformation(inv),
		BuyerDetails:     buyerDetails(ctx.Customer),
		GoodsDetails:     goods,
		TaxDetails:       taxRows,
		Summary: Summary{
			NetAmount:   money(netSide),
			TaxAmount:   money(taxSide),
			GrossAmount: money(inv.GrandTotal),
			ItemCount:   strconv.Itoa(len(goods)),
			ModeCode:    "1",
			Remarks:     inv.Remarks,
		},
		PayWay: []PayWay{{
			PaymentMode:   inv.PayMode,
			PaymentAmount: money(inv.GrandTotal),
			OrderNumber:   "1",
		}},
	}
	return json.Marshal(upload)
}

// BuildCreditNote renders the T110 credit note application body. Goods and
// tax rows carry negated amounts per the interface contract.
func (b *PayloadBuilder) BuildCreditNote(ctx *CreditNoteBuildContext) ([]byte, error) {
	note := ctx.Note
	if note == nil || ctx.Original == nil || ctx.Company == nil || ctx.Customer == nil {
		return nil, fmt.Errorf("efris: incomplete build context")
	}
	if ctx.Original.FDN == "" {
		return nil, fmt.Errorf("efris: original invoice %s has no FDN", ctx.Original.ID)
	}
	if len(ctx.Lines) == 0 {
		return nil, fmt.Errorf("efris: credit note %s has no lines", note.ID)
	}

	lines := make([]LineInput, 0, len(ctx.Lines))
	for _, cl := range ctx.Lines {
		lines = append(lines, LineInput{
			Line: &entity.InvoiceLine{
				ProductID:    cl.Line.ProductID,
				Quantity:     cl.Line.Quantity,
				UnitPrice:    cl.Line.UnitPrice,
				Subtotal:     cl.Line.Subtotal,
				TaxAmount:    cl.Line.TaxAmount,
				Total:        cl.Line.Total,
				ExciseRate:   cl.Product.ExciseRate,
				ExciseUnit:   cl.Product.ExciseUnit,
				ExciseAmount: decimal.Zero,
			},
			Product: cl.Product,
		})
	}

	goods, err := b.goodsRows(lines, note.Currency, true)
	if err != nil {
		return nil, err
	}

	taxSide := note.TaxTotal.Add(note.ExciseTotal)
	netSide := note.GrandTotal.Sub(taxSide)

	app := CreditNoteApplication{
		OldInvoiceNo:             ctx.Original.FDN,
		OldInvoiceID:             ctx.Original.ID,
		ReasonCode:               note.ReasonCode,
		Reason:                   note.Reason,
		ApplicationTime:          note.Date.Format(issuedDateLayout),
		InvoiceApplyCategoryCode: pkgefris.ApplyCategoryCreditNote,
		Currency:                 note.Currency,
		Source:                   pkgefris.DataSourceWebService,
		GoodsDetails:             goods,
		TaxDetails:               b.creditTaxRows(ctx.Lines, note),
		Summary: Summary{
			NetAmount:   money(netSide.Neg()),
			TaxAmount:   money(taxSide.Neg()),
			GrossAmount: money(note.GrandTotal.Neg()),
			ItemCount:   strconv.Itoa(len(goods)),
			ModeCode:    "1",
			Remarks:     note.Reason,
		},
		PayWay: []PayWay{{
			PaymentMode:   pkgefris.PayModeCredit,
			PaymentAmount: money(note.GrandTotal.Neg()),
			OrderNumber:   "1",
		}},
		BasicInformation: BasicInformation{
			DeviceNo:    b.cfg.DeviceNo,
			IssuedDate:  note.Date.Format(issuedDateLayout),
			Operator:    "system",
			Currency:    note.Currency,
			InvoiceType: pkgefris.InvoiceTypeInvoice,
			InvoiceKind: pkgefris.InvoiceKindInvoice,
			DataSource:  pkgefris.DataSourceWebService,
		},
		BuyerDetails:  buyerDetails(ctx.Customer),
		SellerDetails: b.sellerDetails(ctx.Company),
	}
	return json.Marshal(app)
}

func (b *PayloadBuilder) sellerDetails(company *entity.Company) SellerDetails {
	tin := company.TIN
	if tin == "" {
		tin = b.cfg.TIN
	}
	branch := company.BranchID
	if branch == "" {
		branch = b.cfg.BranchID
	}
	return SellerDetails{
		TIN:          tin,
		LegalName:    company.Name,
		BusinessName: company.Name,
		Address:      company.Address,
		MobilePhone:  company.Phone,
		EmailAddress: company.Email,
		ReferenceNo:  company.ID,
		BranchID:     branch,
	}
}

func (b *PayloadBuilder) basicInformation(inv *entity.Invoice) BasicInformation {
	return BasicInformation{
		DeviceNo:    b.cfg.DeviceNo,
		IssuedDate:  inv.Date.Format(issuedDateLayout),
		Operator:    "system",
		Currency:    inv.Currency,
		InvoiceType: pkgefris.InvoiceTypeInvoice,
		InvoiceKind: pkgefris.InvoiceKindInvoice,
		DataSource:  pkgefris.DataSourceWebService,
		IsBatch:     "0",
	}
}

func buyerDetails(customer *entity.Customer) BuyerDetails {
	buyerType := "1" // consumer
	if customer.TIN != "" {
		buyerType = "0" // business
	}
	return BuyerDetails{
		BuyerTin:          customer.TIN,
		BuyerLegalName:    customer.Name,
		BuyerBusinessName: customer.Name,
		BuyerAddress:      customer.Address,
		BuyerEmail:        customer.Email,
		BuyerMobilePhone:  customer.Phone,
		BuyerType:         buyerType,
	}
}

// goodsRows renders one goodsDetails row per line. With negate set, the
// quantity and all amounts flip sign (credit notes), while unit price stays
// positive.
func (b *PayloadBuilder) goodsRows(lines []LineInput, currency string, negate bool) ([]GoodsDetail, error) {
	sign := decimal.NewFromInt(1)
	if negate {
		sign = decimal.NewFromInt(-1)
	}
	rows := make([]GoodsDetail, 0, len(lines))
	for i, li := range lines {
		line, product := li.Line, li.Product
		if product == nil {
			return nil, fmt.Errorf("efris: line %d has no product", i+1)
		}
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("efris: line %d has non-positive quantity", i+1)
		}

		// EFRIS wants tax-inclusive unit prices and totals.
		inclusiveUnit := line.Total.Div(line.Quantity)

		discountFlag := pkgefris.DiscountFlagNone
		discountTotal := ""
		if line.Discount.IsPositive() {
			discountFlag = pkgefris.DiscountFlagDiscounted
			discountTotal = money(line.Discount.Mul(sign))
		}

		row := GoodsDetail{
			Item:            product.Name,
			ItemCode:        product.SKU,
			Qty:             line.Quantity.Mul(sign).String(),
			UnitOfMeasure:   product.UnitMeasure,
			UnitPrice:       money(inclusiveUnit),
			Total:           money(line.Total.Mul(sign)),
			TaxRate:         rateFraction(line.Subtotal, line.TaxAmount),
			Tax:             money(line.TaxAmount.Mul(sign)),
			DiscountTotal:   discountTotal,
			DiscountFlag:    discountFlag,
			DeemedFlag:      pkgefris.DeemedFlagNotDeemed,
			ExciseFlag:      pkgefris.ExciseFlagNotExcise,
			GoodsCategoryID: product.GoodsCode,
			OrderNumber:     strconv.Itoa(i + 1),
		}
		if line.ExciseAmount.IsPositive() {
			row.ExciseFlag = pkgefris.ExciseFlagExcise
			row.ExciseRule = pkgefris.ExciseRuleByQuantity
			row.ExciseRate = line.ExciseRate.String()
			row.ExciseTax = money(line.ExciseAmount.Mul(sign))
			row.ExciseUnit = line.ExciseUnit
			row.ExciseCurrency = currency
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// taxRows aggregates the per-category tax roll-up: one row per effective
// VAT rate (standard, zero/exempt) plus one excise row when any line
// carries excise duty.
func (b *PayloadBuilder) taxRows(lines []LineInput, inv *entity.Invoice, negate bool) []TaxDetail {
	sign := decimal.NewFromInt(1)
	if negate {
		sign = decimal.NewFromInt(-1)
	}

	type bucket struct {
		net, tax decimal.Decimal
	}
	vat := map[string]*bucket{}
	var order []string
	var exciseNet, exciseTax decimal.Decimal
	exciseUnit := ""

	for _, li := range lines {
		line := li.Line
		fraction := rateFraction(line.Subtotal, line.TaxAmount)
		bk := vat[fraction]
		if bk == nil {
			bk = &bucket{}
			vat[fraction] = bk
			order = append(order, fraction)
		}
		bk.net = bk.net.Add(line.Subtotal)
		bk.tax = bk.tax.Add(line.TaxAmount)

		if line.ExciseAmount.IsPositive() {
			exciseNet = exciseNet.Add(line.Subtotal)
			exciseTax = exciseTax.Add(line.ExciseAmount)
			if exciseUnit == "" {
				exciseUnit = line.ExciseUnit
			}
		}
	}

	rows := make([]TaxDetail, 0, len(order)+1)
	for _, fraction := range order {
		bk := vat[fraction]
		category := pkgefris.TaxCategoryStandard
		if fraction == "0" {
			category = pkgefris.TaxCategoryExempt
		}
		rows = append(rows, TaxDetail{
			TaxCategoryCode: category,
			NetAmount:       money(bk.net.Mul(sign)),
			TaxRate:         fraction,
			TaxAmount:       money(bk.tax.Mul(sign)),
			GrossAmount:     money(bk.net.Add(bk.tax).Mul(sign)),
		})
	}
	if exciseTax.IsPositive() {
		rows = append(rows, TaxDetail{
			TaxCategoryCode: pkgefris.TaxCategoryExcise,
			NetAmount:       money(exciseNet.Mul(sign)),
			TaxRate:         pkgefris.ExciseRuleByQuantity,
			TaxAmount:       money(exciseTax.Mul(sign)),
			GrossAmount:     money(exciseNet.Add(exciseTax).Mul(sign)),
			ExciseUnit:      exciseUnit,
			ExciseCurrency:  inv.Currency,
		})
	}
	return rows
}

// creditTaxRows is the negated roll-up for a credit note, including the
// header-level excise share.
func (b *PayloadBuilder) creditTaxRows(lines []CreditLineInput, note *entity.CreditNote) []TaxDetail {
	type bucket struct {
		net, tax decimal.Decimal
	}
	vat := map[string]*bucket{}
	var order []string

	for _, cl := range lines {
		line := cl.Line
		fraction := rateFraction(line.Subtotal, line.TaxAmount)
		bk := vat[fraction]
		if bk == nil {
			bk = &bucket{}
			vat[fraction] = bk
			order = append(order, fraction)
		}
		bk.net = bk.net.Add(line.Subtotal)
		bk.tax = bk.tax.Add(line.TaxAmount)
	}

	rows := make([]TaxDetail, 0, len(order)+1)
	for _, fraction := range order {
		bk := vat[fraction]
		category := pkgefris.TaxCategoryStandard
		if fraction == "0" {
			category = pkgefris.TaxCategoryExempt
		}
		rows = append(rows, TaxDetail{
			TaxCategoryCode: category,
			NetAmount:       money(bk.net.Neg()),
			TaxRate:         fraction,
			TaxAmount:       money(bk.tax.Neg()),
			GrossAmount:     money(bk.net.Add(bk.tax).Neg()),
		})
	}
	if note.ExciseTotal.IsPositive() {
		rows = append(rows, TaxDetail{
			TaxCategoryCode: pkgefris.TaxCategoryExcise,
			NetAmount:       money(decimal.Zero),
			TaxRate:         pkgefris.ExciseRuleByQuantity,
			TaxAmount:       money(note.ExciseTotal.Neg()),
			GrossAmount:     money(note.ExciseTotal.Neg()),
			ExciseCurrency:  note.Currency,
		})
	}
	return rows
}

// ParseInvoiceUpload decodes a stored payload back into its typed form,
// used by audit views and tests.
func ParseInvoiceUpload(raw []byte) (*InvoiceUpload, error) {
	var u InvoiceUpload
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
