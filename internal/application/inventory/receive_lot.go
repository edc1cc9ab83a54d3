package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReceiveLotInput entrada de un lote recibido.
type ReceiveLotInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	EntryDate time.Time // cero = ahora
	LotNumber string
	Reference string // remisión u orden de compra
	UserID    string
}

// ReceiveLotUseCase crea lotes con quantity = available = cantidad recibida e incrementa el stock
// del producto. Es el productor que alimenta al motor FIFO; no aplica políticas de recepción.
type ReceiveLotUseCase struct {
	txRunner TxRunner
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewReceiveLotUseCase construye el caso de uso. metrics puede ser nil.
func NewReceiveLotUseCase(txRunner TxRunner, metrics Metrics, log zerolog.Logger) *ReceiveLotUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ReceiveLotUseCase{txRunner: txRunner, metrics: metrics, log: log, now: time.Now}
}

// Receive registra el lote, el incremento de stock y un movimiento RECEPTION en una sola transacción.
func (uc *ReceiveLotUseCase) Receive(ctx context.Context, in ReceiveLotInput) (*entity.StockSlot, error) {
	if in.ProductID == "" || !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() ||
		!entity.FitsScale(in.Quantity) || !entity.FitsScale(in.UnitPrice) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}
	slot := &entity.StockSlot{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		LotNumber:         in.LotNumber,
		Quantity:          in.Quantity,
		AvailableQuantity: in.Quantity,
		UnitPrice:         in.UnitPrice,
		EntryDate:         entryDate,
		CreatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(
		_ repository.ExitSlipRepository,
		productRepo repository.ProductRepository,
		slotRepo repository.StockSlotRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		slot.ProductID = product.ID
		if err := slotRepo.Create(ctx, slot); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, product.ID, product.CurrentStock.Add(in.Quantity)); err != nil {
			return err
		}
		return movRepo.CreateBatch(ctx, []*entity.StockMovement{{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			StockSlotID: slot.ID,
			Type:        entity.MovementTypeReception,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Date:        entryDate,
			Reference:   in.Reference,
			CreatedAt:   now,
			CreatedBy:   in.UserID,
		}})
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.AddMovements(entity.MovementTypeReception, 1)
	uc.log.Info().
		Str("product_id", slot.ProductID).
		Str("stock_slot_id", slot.ID).
		Str("lot_number", slot.LotNumber).
		Str("quantity", slot.Quantity.String()).
		Msg("lote recibido")
	return slot, nil
}
