package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/inventory"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// RegisterMovementUseCase records inventory movements transactionally
// (IN, OUT, ADJUSTMENT, TRANSFER) with row locking (SELECT FOR UPDATE).
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInputDTO is the input for registering one inventory movement.
// For IN/OUT/ADJUSTMENT: ProductID, WarehouseID, Type, Quantity; UnitCost
// required for IN. For TRANSFER: ProductID, FromWarehouseID, ToWarehouseID,
// Quantity.
type MovementInputDTO struct {
	CompanyID       string
	UserID          string
	ProductID       string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Type            string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
}

// RegisterMovement opens a transaction, locks the stock row and applies the
// movement by type, committing on success and rolling back on any error.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) error {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
		if input.ProductID == "" || input.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
			return domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeOUT && input.Quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if input.ProductID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromWarehouseID == input.ToWarehouseID || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}

	if input.Type == entity.MovementTypeTRANSFER {
		fromWh, _ := uc.warehouseRepo.GetByID(input.FromWarehouseID)
		toWh, _ := uc.warehouseRepo.GetByID(input.ToWarehouseID)
		if fromWh == nil || toWh == nil || fromWh.CompanyID != input.CompanyID || toWh.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}
	} else {
		wh, _ := uc.warehouseRepo.GetByID(input.WarehouseID)
		if wh == nil || wh.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}
	}

	now := time.Now()
	txID := uuid.New().String()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		switch input.Type {
		case entity.MovementTypeIN:
			return uc.doIN(movRepo, stockRepo, productRepo, product, input, now, txID)
		case entity.MovementTypeOUT:
			return uc.doOUT(movRepo, stockRepo, product, input, now, txID)
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(movRepo, stockRepo, productRepo, product, input, now, txID)
		case entity.MovementTypeTRANSFER:
			return uc.doTRANSFER(movRepo, stockRepo, productRepo, input, now, txID)
		}
		return domain.ErrInvalidInput
	})
}

// doIN locks the stock row, recomputes the weighted-average cost, updates
// the product cost, adds the quantity and records the movement.
func (uc *RegisterMovementUseCase) doIN(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, input.WarehouseID)
	if err != nil {
		return err
	}
	unitCost := *input.UnitCost
	newQty := stock.Quantity.Add(input.Quantity)
	newCost := inventory.CostCalculator(stock.Quantity, product.Cost, input.Quantity, unitCost)

	if err := productRepo.UpdateCost(input.ProductID, newCost); err != nil {
		return err
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.WarehouseID,
		Type:          entity.MovementTypeIN,
		Quantity:      input.Quantity,
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	return movRepo.Create(mov)
}

// doOUT locks the stock row, checks availability, subtracts the quantity
// and records the movement at the current average cost.
func (uc *RegisterMovementUseCase) doOUT(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, input.WarehouseID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = stock.Quantity.Sub(input.Quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	unitCost := product.Cost
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.WarehouseID,
		Type:          entity.MovementTypeOUT,
		Quantity:      input.Quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Neg().Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	return movRepo.Create(mov)
}

// RegisterOUTInTx executes an OUT with the caller's transactional
// repositories, so invoice creation and its stock deduction commit or roll
// back as one unit. transactionID is typically the invoice ID.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	warehouseID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	stock, err := stockRepo.GetForUpdate(product.ID, warehouseID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = stock.Quantity.Sub(quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	unitCost := product.Cost
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		ProductID:     product.ID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeOUT,
		Quantity:      quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     quantity.Neg().Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return movRepo.Create(mov)
}

// RegisterINInTx executes an IN with the caller's transactional
// repositories. Used by credit notes that restock returned goods; the
// return comes back at the product's current average cost, so the average
// is unchanged. transactionID is the credit note ID.
func (uc *RegisterMovementUseCase) RegisterINInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	warehouseID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	stock, err := stockRepo.GetForUpdate(product.ID, warehouseID)
	if err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Add(quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	unitCost := product.Cost
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		ProductID:     product.ID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeIN,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return movRepo.Create(mov)
}

// doADJUSTMENT treats a positive quantity as an IN and a negative one as
// an OUT.
func (uc *RegisterMovementUseCase) doADJUSTMENT(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	if input.Quantity.GreaterThan(decimal.Zero) {
		unitCost := decimal.Zero
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		}
		input.UnitCost = &unitCost
		return uc.doIN(movRepo, stockRepo, productRepo, product, input, now, txID)
	}
	adjOut := input
	adjOut.Quantity = input.Quantity.Neg()
	return uc.doOUT(movRepo, stockRepo, product, adjOut, now, txID)
}

// doTRANSFER subtracts from the origin warehouse and adds to the
// destination in the same transaction, recording two movements.
func (uc *RegisterMovementUseCase) doTRANSFER(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	origin, err := stockRepo.GetForUpdate(input.ProductID, input.FromWarehouseID)
	if err != nil {
		return err
	}
	if origin.Quantity.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	dest, _ := stockRepo.Get(input.ProductID, input.ToWarehouseID)
	if dest == nil {
		dest = &entity.Stock{ProductID: input.ProductID, WarehouseID: input.ToWarehouseID, Quantity: decimal.Zero, UpdatedAt: now}
	}
	origin.Quantity = origin.Quantity.Sub(input.Quantity)
	dest.Quantity = dest.Quantity.Add(input.Quantity)
	origin.UpdatedAt = now
	dest.UpdatedAt = now
	if err := stockRepo.Upsert(origin); err != nil {
		return err
	}
	if err := stockRepo.Upsert(dest); err != nil {
		return err
	}
	product, err := productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	unitCost := product.Cost
	outMov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.FromWarehouseID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      input.Quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Neg().Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := movRepo.Create(outMov); err != nil {
		return err
	}
	inMov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.ToWarehouseID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      input.Quantity,
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	return movRepo.Create(inMov)
}
