package repository

import (
	"context"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
)

// StockMovementRepository define el puerto de persistencia para movimientos (solo inserción).
type StockMovementRepository interface {
	// CreateBatch inserta todos los movimientos en la misma unidad de trabajo.
	CreateBatch(ctx context.Context, movements []*entity.StockMovement) error
	// Search devuelve los movimientos que cumplen el filtro, ordenados por fecha y luego ID.
	Search(ctx context.Context, filter inventory.MovementFilter) ([]*entity.MovementView, error)
}
