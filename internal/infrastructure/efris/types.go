package efris

// Wire structures for EFRIS invoice upload (interface T109) and credit note
// application (interface T110). All monetary values travel as strings with
// two decimals and tax rates as decimal fractions ("0.18"), matching what
// the URA endpoint expects.

// SellerDetails identifies the issuing taxpayer.
type SellerDetails struct {
	TIN             string `json:"tin"`
	NinBrn          string `json:"ninBrn,omitempty"`
	LegalName       string `json:"legalName"`
	BusinessName    string `json:"businessName,omitempty"`
	Address         string `json:"address,omitempty"`
	MobilePhone     string `json:"mobilePhone,omitempty"`
	LinePhone       string `json:"linePhone,omitempty"`
	EmailAddress    string `json:"emailAddress,omitempty"`
	PlaceOfBusiness string `json:"placeOfBusiness,omitempty"`
	ReferenceNo     string `json:"referenceNo"`
	BranchID        string `json:"branchId,omitempty"`
}

// BasicInformation carries the document-level header fields.
type BasicInformation struct {
	InvoiceNo           string `json:"invoiceNo,omitempty"`
	AntifakeCode        string `json:"antifakeCode,omitempty"`
	DeviceNo            string `json:"deviceNo"`
	IssuedDate          string `json:"issuedDate"`
	Operator            string `json:"operator"`
	Currency            string `json:"currency"`
	InvoiceType         string `json:"invoiceType"`
	InvoiceKind         string `json:"invoiceKind"`
	DataSource          string `json:"dataSource"`
	InvoiceIndustryCode string `json:"invoiceIndustryCode,omitempty"`
	IsBatch             string `json:"isBatch,omitempty"`
}

// BuyerDetails identifies the customer. BuyerType "0" is business (TIN
// required), "1" consumer.
type BuyerDetails struct {
	BuyerTin          string `json:"buyerTin,omitempty"`
	BuyerNinBrn       string `json:"buyerNinBrn,omitempty"`
	BuyerLegalName    string `json:"buyerLegalName,omitempty"`
	BuyerBusinessName string `json:"buyerBusinessName,omitempty"`
	BuyerAddress      string `json:"buyerAddress,omitempty"`
	BuyerEmail        string `json:"buyerEmail,omitempty"`
	BuyerMobilePhone  string `json:"buyerMobilePhone,omitempty"`
	BuyerType         string `json:"buyerType"`
	BuyerCitizenship  string `json:"buyerCitizenship,omitempty"`
}

// GoodsDetail is one goodsDetails row. Excise fields are present only when
// ExciseFlag is "1".
type GoodsDetail struct {
	Item            string `json:"item"`
	ItemCode        string `json:"itemCode"`
	Qty             string `json:"qty"`
	UnitOfMeasure   string `json:"unitOfMeasure,omitempty"`
	UnitPrice       string `json:"unitPrice"`
	Total           string `json:"total"`
	TaxRate         string `json:"taxRate"`
	Tax             string `json:"tax"`
	DiscountTotal   string `json:"discountTotal,omitempty"`
	DiscountFlag    string `json:"discountFlag"`
	DeemedFlag      string `json:"deemedFlag"`
	ExciseFlag      string `json:"exciseFlag"`
	CategoryID      string `json:"categoryId,omitempty"`
	GoodsCategoryID string `json:"goodsCategoryId,omitempty"`
	ExciseRate      string `json:"exciseRate,omitempty"`
	ExciseRule      string `json:"exciseRule,omitempty"`
	ExciseTax       string `json:"exciseTax,omitempty"`
	ExciseUnit      string `json:"exciseUnit,omitempty"`
	ExciseCurrency  string `json:"exciseCurrency,omitempty"`
	OrderNumber     string `json:"orderNumber"`
}

// TaxDetail is one taxDetails row: the per-category tax roll-up that URA
// cross-validates against the goods rows and the summary.
type TaxDetail struct {
	TaxCategoryCode string `json:"taxCategoryCode"`
	NetAmount       string `json:"netAmount"`
	TaxRate         string `json:"taxRate"`
	TaxAmount       string `json:"taxAmount"`
	GrossAmount     string `json:"grossAmount"`
	ExciseUnit      string `json:"exciseUnit,omitempty"`
	ExciseCurrency  string `json:"exciseCurrency,omitempty"`
	TaxRateName     string `json:"taxRateName,omitempty"`
}

// Summary is the document totals block. NetAmount + TaxAmount must equal
// GrossAmount exactly.
type Summary struct {
	NetAmount   string `json:"netAmount"`
	TaxAmount   string `json:"taxAmount"`
	GrossAmount string `json:"grossAmount"`
	ItemCount   string `json:"itemCount"`
	ModeCode    string `json:"modeCode"`
	Remarks     string `json:"remarks,omitempty"`
	QRCode      string `json:"qrCode,omitempty"`
}

// PayWay is one payment line.
type PayWay struct {
	PaymentMode   string `json:"paymentMode"`
	PaymentAmount string `json:"paymentAmount"`
	OrderNumber   string `json:"orderNumber"`
}

// InvoiceUpload is the T109 request body.
type InvoiceUpload struct {
	SellerDetails    SellerDetails    `json:"sellerDetails"`
	BasicInformation BasicInformation `json:"basicInformation"`
	BuyerDetails     BuyerDetails     `json:"buyerDetails"`
	GoodsDetails     []GoodsDetail    `json:"goodsDetails"`
	TaxDetails       []TaxDetail      `json:"taxDetails"`
	Summary          Summary          `json:"summary"`
	PayWay           []PayWay         `json:"payWay"`
}

// CreditNoteApplication is the T110 request body. Goods and tax rows carry
// negative amounts; oldInvoiceNo ties the application to the fiscalized
// invoice being reversed.
type CreditNoteApplication struct {
	OldInvoiceNo             string           `json:"oldInvoiceNo"`
	OldInvoiceID             string           `json:"oldInvoiceId,omitempty"`
	ReasonCode               string           `json:"reasonCode"`
	Reason                   string           `json:"reason,omitempty"`
	ApplicationTime          string           `json:"applicationTime"`
	InvoiceApplyCategoryCode string           `json:"invoiceApplyCategoryCode"`
	Currency                 string           `json:"currency"`
	Source                   string           `json:"source"`
	GoodsDetails             []GoodsDetail    `json:"goodsDetails"`
	TaxDetails               []TaxDetail      `json:"taxDetails"`
	Summary                  Summary          `json:"summary"`
	PayWay                   []PayWay         `json:"payWay"`
	BasicInformation         BasicInformation `json:"basicInformation"`
	BuyerDetails             BuyerDetails     `json:"buyerDetails"`
	SellerDetails            SellerDetails    `json:"sellerDetails"`
}
