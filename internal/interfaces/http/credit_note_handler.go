package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmuwanga/billing-api/internal/application/billing"
	"github.com/kmuwanga/billing-api/internal/application/dto"
)

// CreditNoteHandler handles credit note HTTP requests (protected).
type CreditNoteHandler struct {
	uc *billing.CreateCreditNoteUseCase
}

// NewCreditNoteHandler builds the handler.
func NewCreditNoteHandler(uc *billing.CreateCreditNoteUseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create creates a credit note against an accepted invoice, optionally
// restocking the returned goods, and queues the EFRIS application.
// POST /api/credit-notes
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: dto.ValidationMessage(err)})
	}
	note, err := h.uc.CreateCreditNote(c.Context(), companyID, userID, in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// GetByID returns a full credit note with its lines.
// GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id is required"})
	}
	note, err := h.uc.GetCreditNote(c.Context(), companyID, id)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(note)
}

// List returns the credit notes of the caller's company.
// GET /api/credit-notes
func (h *CreditNoteHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	out, err := h.uc.ListCreditNotes(c.Context(), companyID, pageFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
