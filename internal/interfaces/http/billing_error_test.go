package http

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/tax"
)

// ──────────────────────────────────────────────────────────────────────────────
// mapBillingError: engine validation errors must reach the client as a 400
// with the field and reason, never as a 500, even when wrapped with the
// line position.
// ──────────────────────────────────────────────────────────────────────────────

func billingErrorApp(err error) *fiber.App {
	app := fiber.New()
	app.Post("/doc", func(c *fiber.Ctx) error {
		return mapBillingError(c, err)
	})
	return app
}

func postDoc(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/doc", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMapBillingError_CreditQtyAboveOriginalReturns400(t *testing.T) {
	src := tax.CreditSource{
		Quantity:  decimal.NewFromInt(10),
		UnitPrice: decimal.NewFromInt(1000),
		Mode:      tax.TaxModeExclusive,
	}
	_, err := tax.BuildCreditLine(src, decimal.NewFromInt(15))
	require.Error(t, err)

	status, body := postDoc(t, billingErrorApp(fmt.Errorf("line 1: %w", err)))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION")
	assert.Contains(t, body, "credit qty exceeds original qty")
	assert.Contains(t, body, "line 1")
}

func TestMapBillingError_DiscountAbove100Returns400(t *testing.T) {
	_, err := tax.ComputeLine(tax.LineParams{
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(1000),
		Mode:         tax.TaxModeExclusive,
		Discount:     decimal.NewFromInt(120),
		DiscountType: tax.DiscountPercentage,
	})
	require.Error(t, err)

	status, body := postDoc(t, billingErrorApp(fmt.Errorf("line 2: %w", err)))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION")
	assert.Contains(t, body, "discount")
}

func TestMapBillingError_SentinelsKeepTheirStatus(t *testing.T) {
	status, body := postDoc(t, billingErrorApp(domain.ErrInsufficientStock))

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body, "INSUFFICIENT_STOCK")
}
