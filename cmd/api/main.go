package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kmuwanga/billing-api/internal/application/auth"
	"github.com/kmuwanga/billing-api/internal/application/billing"
	"github.com/kmuwanga/billing-api/internal/application/inventory"
	"github.com/kmuwanga/billing-api/internal/application/usecase"
	infraefris "github.com/kmuwanga/billing-api/internal/infrastructure/efris"
	infrapdf "github.com/kmuwanga/billing-api/internal/infrastructure/pdf"
	"github.com/kmuwanga/billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/kmuwanga/billing-api/internal/interfaces/http"
	"github.com/kmuwanga/billing-api/pkg/config"
	"github.com/kmuwanga/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	creditNoteRepo := postgres.NewCreditNoteRepository(pool)
	taxRateRepo := postgres.NewTaxRateRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, warehouseRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)

	// EFRISOrchestrator: payload (T109/T110) → submit → persist FDN/QR.
	// With an empty TIN fiscalization is disabled and documents stay DRAFT;
	// in "development" the URA web service is never called, the mock path
	// assigns a fake FDN so the full lifecycle can be exercised locally.
	payloadBuilder := infraefris.NewPayloadBuilder(infraefris.Config{
		TIN:      cfg.EFRIS.TIN,
		DeviceNo: cfg.EFRIS.DeviceNo,
		BranchID: cfg.EFRIS.BranchID,
	})
	efrisOrchestrator := billing.NewEFRISOrchestrator(
		invoiceRepo, creditNoteRepo, companyRepo, customerRepo, productRepo,
		payloadBuilder,
		billing.EFRISConfig{
			TIN:      cfg.EFRIS.TIN,
			DeviceNo: cfg.EFRIS.DeviceNo,
			BranchID: cfg.EFRIS.BranchID,
			Env:      cfg.App.Env,
		},
		log,
	)

	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, registerMovementUC,
		customerRepo, companyRepo, productRepo, warehouseRepo, invoiceRepo,
		taxRateRepo, efrisOrchestrator,
	)
	createCreditNoteUC := billing.NewCreateCreditNoteUseCase(
		txRunner, registerMovementUC,
		invoiceRepo, creditNoteRepo, productRepo, warehouseRepo,
		efrisOrchestrator,
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, taxRateRepo)
	taxRateUC := usecase.NewTaxRateUseCase(taxRateRepo)

	// PDF: printable representation of the fiscalized invoice
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, companyRepo, customerRepo, productRepo, pdfGenerator,
	)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI locally: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		CompanyUC:        companyUC,
		UserUC:           userUC,
		WarehouseUC:      warehouseUC,
		ProductUC:        productUC,
		TaxRateUC:        taxRateUC,
		RegisterMovement: registerMovementUC,
		CustomerUC:       customerUC,
		CreateInvoice:    createInvoiceUC,
		CreateCreditNote: createCreditNoteUC,
		PDFUC:            invoicePDFUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
