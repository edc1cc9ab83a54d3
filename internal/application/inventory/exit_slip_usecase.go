package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
)

// ExitSlipUseCase ciclo de vida del vale de salida fuera del motor FIFO: creación en DRAFT,
// consulta y cancelación.
type ExitSlipUseCase struct {
	txRunner TxRunner
	slipRepo repository.ExitSlipRepository
	now      func() time.Time
}

// NewExitSlipUseCase construye el caso de uso.
func NewExitSlipUseCase(txRunner TxRunner, slipRepo repository.ExitSlipRepository) *ExitSlipUseCase {
	return &ExitSlipUseCase{txRunner: txRunner, slipRepo: slipRepo, now: time.Now}
}

// Create registra un vale en DRAFT. Cada línea debe referenciar un producto existente con cantidad >= 0
// y al menos una línea debe pedir cantidad > 0.
func (uc *ExitSlipUseCase) Create(ctx context.Context, userID string, in dto.CreateExitSlipRequest) (*entity.ExitSlip, error) {
	if len(in.Items) == 0 || !entity.ValidExitReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	slip := &entity.ExitSlip{
		ID:          uuid.New().String(),
		SlipNumber:  strings.TrimSpace(in.SlipNumber),
		ExitDate:    now,
		Destination: in.Destination,
		Reason:      in.Reason,
		Status:      entity.ExitSlipStatusDraft,
		Comment:     in.Comment,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ExitDate != nil {
		slip.ExitDate = *in.ExitDate
	}
	if slip.SlipNumber == "" {
		slip.SlipNumber = newSlipNumber(now, slip.ID)
	}
	for i, it := range in.Items {
		slip.Items = append(slip.Items, entity.ExitSlipItem{
			ID:                uuid.New().String(),
			ExitSlipID:        slip.ID,
			Position:          i + 1,
			ProductID:         it.ProductID,
			RequestedQuantity: it.RequestedQuantity,
		})
	}
	if err := checkItems(slip.Items); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		slipRepo repository.ExitSlipRepository,
		productRepo repository.ProductRepository,
		_ repository.StockSlotRepository,
		_ repository.StockMovementRepository,
	) error {
		for _, it := range slip.Items {
			p, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrProductNotFound
			}
		}
		return slipRepo.Create(ctx, slip)
	})
	if err != nil {
		return nil, err
	}
	return slip, nil
}

// GetByID obtiene un vale con sus líneas.
func (uc *ExitSlipUseCase) GetByID(ctx context.Context, id string) (*entity.ExitSlip, error) {
	slip, err := uc.slipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slip == nil {
		return nil, domain.ErrExitSlipNotFound
	}
	return slip, nil
}

// Cancel pasa un vale de DRAFT a CANCELLED. Un vale validado no puede cancelarse.
func (uc *ExitSlipUseCase) Cancel(ctx context.Context, id string) (*entity.ExitSlip, error) {
	var cancelled *entity.ExitSlip
	err := uc.txRunner.Run(ctx, func(
		slipRepo repository.ExitSlipRepository,
		_ repository.ProductRepository,
		_ repository.StockSlotRepository,
		_ repository.StockMovementRepository,
	) error {
		slip, err := slipRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if slip == nil {
			return domain.ErrExitSlipNotFound
		}
		if !slip.IsDraft() {
			return domain.ErrInvalidState
		}
		if err := slipRepo.UpdateStatus(ctx, id, entity.ExitSlipStatusCancelled); err != nil {
			return err
		}
		slip.Status = entity.ExitSlipStatusCancelled
		cancelled = slip
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// newSlipNumber genera BS-AAAAMMDD-XXXXXXXX a partir de la fecha y del ID del vale.
func newSlipNumber(now time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("BS-%s-%s", now.Format("20060102"), suffix)
}
