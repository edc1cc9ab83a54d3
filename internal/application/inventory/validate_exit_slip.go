package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/rs/zerolog"
)

// ValidateExitSlipUseCase es el motor de salidas FIFO: valida un vale en DRAFT descontando
// los lotes del más antiguo al más reciente, dentro de una sola transacción.
type ValidateExitSlipUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	metrics   Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewValidateExitSlipUseCase construye el motor. publisher y metrics pueden ser nil.
func NewValidateExitSlipUseCase(
	txRunner TxRunner,
	publisher EventPublisher,
	metrics Metrics,
	log zerolog.Logger,
) *ValidateExitSlipUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ValidateExitSlipUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Validate asigna todas las líneas del vale contra los lotes disponibles y lo marca VALIDATED.
//
// Flujo: bloquea el vale, bloquea los productos en orden de ID y sus lotes disponibles,
// construye el plan de asignación en memoria y solo si todas las líneas se cubren vuelca
// lotes, stock de productos, movimientos y estado del vale. Ante stock insuficiente no se
// escribe nada y la transacción se descarta (Rollback).
func (uc *ValidateExitSlipUseCase) Validate(ctx context.Context, slipID, userID string) (*entity.ExitSlip, error) {
	start := time.Now()
	var (
		validated *entity.ExitSlip
		plan      *inventory.AllocationPlan
		movements []*entity.StockMovement
	)

	err := uc.txRunner.Run(ctx, func(
		slipRepo repository.ExitSlipRepository,
		productRepo repository.ProductRepository,
		slotRepo repository.StockSlotRepository,
		movRepo repository.StockMovementRepository,
	) error {
		slip, err := slipRepo.GetForUpdate(ctx, slipID)
		if err != nil {
			return err
		}
		if slip == nil {
			return domain.ErrExitSlipNotFound
		}
		if !slip.IsDraft() {
			return domain.ErrInvalidState
		}
		if err := checkItems(slip.Items); err != nil {
			return err
		}

		plan, err = uc.loadPlan(ctx, productRepo, slotRepo, slip.Items)
		if err != nil {
			return err
		}
		for _, item := range slip.Items {
			if err := plan.Allocate(item); err != nil {
				return err
			}
		}

		// Todas las líneas asignadas: volcar el staging.
		now := uc.now()
		for _, s := range plan.TouchedSlots() {
			if err := slotRepo.UpdateAvailable(ctx, s.ID, s.AvailableQuantity); err != nil {
				return err
			}
		}
		for _, p := range plan.Products() {
			if err := productRepo.UpdateStock(ctx, p.ID, p.CurrentStock); err != nil {
				return err
			}
		}
		movements = buildExitMovements(slip, plan.Takes(), userID, now)
		if err := movRepo.CreateBatch(ctx, movements); err != nil {
			return err
		}
		if err := slipRepo.MarkValidated(ctx, slip.ID, userID, now); err != nil {
			return err
		}

		slip.Status = entity.ExitSlipStatusValidated
		slip.ValidatedBy = userID
		slip.ValidatedAt = &now
		slip.UpdatedAt = now
		validated = slip
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		uc.recordFailure(slipID, err, elapsed)
		return nil, err
	}

	uc.metrics.ObserveValidation(OutcomeValidated, elapsed)
	uc.metrics.AddMovements(entity.MovementTypeExit, len(movements))
	uc.log.Info().
		Str("exit_slip_id", validated.ID).
		Str("slip_number", validated.SlipNumber).
		Str("validated_by", userID).
		Int("movements", len(movements)).
		Dur("elapsed", elapsed).
		Msg("vale de salida validado")

	for _, p := range plan.Products() {
		if p.BelowReorderPoint() {
			uc.log.Warn().
				Str("product_id", p.ID).
				Str("reference", p.Reference).
				Str("current_stock", p.CurrentStock.String()).
				Str("reorder_point", p.ReorderPoint.String()).
				Msg("producto bajo punto de reorden")
		}
	}

	evt := buildValidatedEvent(validated, movements, plan)
	if err := uc.publisher.PublishExitSlipValidated(ctx, evt); err != nil {
		// El Commit ya ocurrió: el fallo de publicación no revierte la validación.
		uc.log.Error().Err(err).Str("exit_slip_id", validated.ID).Msg("publicar evento de validación")
	}
	return validated, nil
}

// checkItems exige al menos una línea con cantidad > 0, ninguna negativa y todas dentro de la escala del libro.
func checkItems(items []entity.ExitSlipItem) error {
	positive := false
	for _, it := range items {
		if it.RequestedQuantity.IsNegative() || !entity.FitsScale(it.RequestedQuantity) || it.ProductID == "" {
			return domain.ErrInvalidInput
		}
		if it.RequestedQuantity.IsPositive() {
			positive = true
		}
	}
	if !positive {
		return domain.ErrInvalidInput
	}
	return nil
}

// loadPlan bloquea cada producto distinto en orden ascendente de ID y carga sus lotes disponibles.
// El orden fijo de bloqueo evita interbloqueos entre validaciones concurrentes.
func (uc *ValidateExitSlipUseCase) loadPlan(
	ctx context.Context,
	productRepo repository.ProductRepository,
	slotRepo repository.StockSlotRepository,
	items []entity.ExitSlipItem,
) (*inventory.AllocationPlan, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.RequestedQuantity.IsZero() || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)

	plan := inventory.NewAllocationPlan()
	for _, id := range ids {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		slots, err := slotRepo.ListAvailableForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		plan.AddProduct(product, slots)
	}
	return plan, nil
}

func buildExitMovements(slip *entity.ExitSlip, takes []inventory.SlotTake, userID string, now time.Time) []*entity.StockMovement {
	movements := make([]*entity.StockMovement, 0, len(takes))
	for _, t := range takes {
		movements = append(movements, &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      t.Slot.ProductID,
			StockSlotID:    t.Slot.ID,
			ExitSlipID:     slip.ID,
			ExitSlipItemID: t.ItemID,
			Type:           entity.MovementTypeExit,
			Quantity:       t.Quantity,
			UnitPrice:      t.Slot.UnitPrice,
			Date:           now,
			Reference:      slip.SlipNumber,
			CreatedAt:      now,
			CreatedBy:      userID,
		})
	}
	return movements
}

func buildValidatedEvent(slip *entity.ExitSlip, movements []*entity.StockMovement, plan *inventory.AllocationPlan) ExitSlipValidatedEvent {
	entries := make([]MovementEventEntry, 0, len(movements))
	for _, m := range movements {
		entry := MovementEventEntry{
			ProductID:   m.ProductID,
			StockSlotID: m.StockSlotID,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
		}
		if s := plan.Slot(m.StockSlotID); s != nil {
			entry.LotNumber = s.LotNumber
		}
		entries = append(entries, entry)
	}
	return ExitSlipValidatedEvent{
		ExitSlipID:  slip.ID,
		SlipNumber:  slip.SlipNumber,
		ValidatedBy: slip.ValidatedBy,
		ValidatedAt: *slip.ValidatedAt,
		Movements:   entries,
	}
}

func (uc *ValidateExitSlipUseCase) recordFailure(slipID string, err error, elapsed time.Duration) {
	var shortage *domain.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		uc.metrics.ObserveValidation(OutcomeInsufficientStock, elapsed)
		uc.log.Warn().
			Str("exit_slip_id", slipID).
			Str("product_id", shortage.ProductID).
			Str("requested", shortage.Requested.String()).
			Str("available", shortage.Available.String()).
			Msg("validación rechazada por stock insuficiente")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrInvalidInput):
		uc.metrics.ObserveValidation(OutcomeRejected, elapsed)
		uc.log.Info().Err(err).Str("exit_slip_id", slipID).Msg("validación rechazada")
	default:
		uc.metrics.ObserveValidation(OutcomeError, elapsed)
		uc.log.Error().Err(err).Str("exit_slip_id", slipID).Msg("validación de vale de salida")
	}
}
