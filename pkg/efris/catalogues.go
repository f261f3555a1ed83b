// Package efris contains catalogues aligned to the URA EFRIS system
// dictionary (Uganda Revenue Authority, Electronic Fiscal Receipting and
// Invoicing Solution), as used in the T109 Invoice Upload and T110 Credit
// Note Application interfaces.
package efris

// =============================================================================
// Tax category codes (taxDetails.taxCategoryCode)
// =============================================================================

const (
	TaxCategoryStandard = "01" // standard-rated VAT (18%)
	TaxCategoryZero     = "02" // zero-rated
	TaxCategoryExempt   = "03" // exempt
	TaxCategoryDeemed   = "04" // deemed VAT
	TaxCategoryExcise   = "05" // excise duty
)

// ValidTaxCategoryCodes tax category codes accepted in taxDetails rows.
var ValidTaxCategoryCodes = map[string]bool{
	TaxCategoryStandard: true,
	TaxCategoryZero:     true,
	TaxCategoryExempt:   true,
	TaxCategoryDeemed:   true,
	TaxCategoryExcise:   true,
}

// =============================================================================
// Line flags (goodsDetails)
// =============================================================================

const (
	// discountFlag: 0 = this line is a discount line, 1 = discounted item,
	// 2 = no discount applies.
	DiscountFlagDiscountLine = "0"
	DiscountFlagDiscounted   = "1"
	DiscountFlagNone         = "2"

	// deemedFlag
	DeemedFlagDeemed    = "1"
	DeemedFlagNotDeemed = "2"

	// exciseFlag
	ExciseFlagExcise    = "1"
	ExciseFlagNotExcise = "2"

	// exciseRule: how exciseRate is interpreted.
	ExciseRuleByRate     = "1" // percentage of the dutiable value
	ExciseRuleByQuantity = "2" // specific duty per unit of measure
)

// =============================================================================
// Payment modes (payWay dictionary)
// =============================================================================

const (
	PayModeCredit      = "101"
	PayModeCash        = "102"
	PayModeCheque      = "103"
	PayModeDemandDraft = "104"
	PayModeMobileMoney = "105"
	PayModeCard        = "106"
	PayModeEFT         = "107"
	PayModePOS         = "108"
)

// ValidPaymentModes payment mode codes from the payWay dictionary.
var ValidPaymentModes = map[string]bool{
	PayModeCredit: true, PayModeCash: true, PayModeCheque: true,
	PayModeDemandDraft: true, PayModeMobileMoney: true, PayModeCard: true,
	PayModeEFT: true, PayModePOS: true,
}

// =============================================================================
// Credit note application (T110)
// =============================================================================

const (
	// invoiceApplyCategoryCode
	ApplyCategoryCreditNote = "101"

	// refundReason dictionary
	RefundReasonExpiryOrDamage = "101"
	RefundReasonCancellation   = "102"
	RefundReasonWrongAmount    = "103"
	RefundReasonWaiveOff       = "104"
	RefundReasonOther          = "105" // free-text reason required
)

// ValidRefundReasonCodes refund reason codes for credit note applications.
var ValidRefundReasonCodes = map[string]bool{
	RefundReasonExpiryOrDamage: true,
	RefundReasonCancellation:   true,
	RefundReasonWrongAmount:    true,
	RefundReasonWaiveOff:       true,
	RefundReasonOther:          true,
}

// =============================================================================
// Document kinds and data sources (basicInformation)
// =============================================================================

const (
	InvoiceTypeInvoice    = "1"
	InvoiceKindInvoice    = "1"
	InvoiceKindReceipt    = "2"
	DataSourceWebService  = "103" // WebService API
	IndustryCodeGeneral   = "101"
	CurrencyUGX           = "UGX"
)
