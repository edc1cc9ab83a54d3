package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
)

// SearchMovementsUseCase consulta el historial de movimientos con criterios opcionales (solo lectura).
type SearchMovementsUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewSearchMovementsUseCase construye el caso de uso.
func NewSearchMovementsUseCase(movRepo repository.StockMovementRepository) *SearchMovementsUseCase {
	return &SearchMovementsUseCase{movRepo: movRepo}
}

// Search combina con AND los criterios presentes; sin criterios devuelve todos los movimientos.
// El resultado viene ordenado por fecha y, a igual fecha, por ID.
func (uc *SearchMovementsUseCase) Search(ctx context.Context, criteria inventory.MovementCriteria) ([]*entity.MovementView, error) {
	if criteria.StartDate != nil && criteria.EndDate != nil && criteria.EndDate.Before(*criteria.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if criteria.Type != nil && !entity.ValidMovementType(*criteria.Type) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.Search(ctx, inventory.BuildMovementFilter(criteria))
}
