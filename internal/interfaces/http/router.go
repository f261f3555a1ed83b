package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmuwanga/billing-api/internal/application/auth"
	"github.com/kmuwanga/billing-api/internal/application/billing"
	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/application/inventory"
	"github.com/kmuwanga/billing-api/internal/application/usecase"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
)

// RouterDeps carries the use cases the router wires to handlers.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CompanyUC        *usecase.CompanyUseCase
	UserUC           *usecase.UserUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	ProductUC        *usecase.ProductUseCase
	TaxRateUC        *usecase.TaxRateUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	CustomerUC       *billing.CustomerUseCase
	CreateInvoice    *billing.CreateInvoiceUseCase
	CreateCreditNote *billing.CreateCreditNoteUseCase
	PDFUC            *billing.PDFUseCase
	JWTSecret        string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (public creation for tenant onboarding)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin, entity.RoleStorekeeper), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleStorekeeper), warehouseHandler.Update)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleStorekeeper), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleStorekeeper), productHandler.Update)

	// Tax rates (reference data, admin writes)
	taxRates := protected.Group("/tax-rates")
	taxRateHandler := NewTaxRateHandler(deps.TaxRateUC)
	taxRates.Post("/", RequireRole(entity.RoleAdmin), taxRateHandler.Create)
	taxRates.Get("/", taxRateHandler.List)
	taxRates.Get("/:id", taxRateHandler.GetByID)
	taxRates.Put("/:id", RequireRole(entity.RoleAdmin), taxRateHandler.Update)

	// Inventory movements
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleStorekeeper), inventoryHandler.RegisterMovement)

	// Customers (billing)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.PDFUC)
	invoices.Post("/", RequireRole(entity.RoleAdmin, entity.RoleCashier), invoiceHandler.Create)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/efris-status", invoiceHandler.EFRISStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Credit notes
	creditNotes := protected.Group("/credit-notes")
	creditNoteHandler := NewCreditNoteHandler(deps.CreateCreditNote)
	creditNotes.Post("/", RequireRole(entity.RoleAdmin, entity.RoleCashier), creditNoteHandler.Create)
	creditNotes.Get("/", creditNoteHandler.List)
	creditNotes.Get("/:id", creditNoteHandler.GetByID)
}

// pageFromQuery reads pagination parameters with their defaults.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	page.Normalize()
	return page
}
