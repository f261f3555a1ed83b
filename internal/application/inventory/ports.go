package inventory

import (
	"context"

	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// TxRunner executes a function inside a database transaction, handing it
// repositories bound to that transaction. It guarantees atomicity for the
// inventory engine.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
