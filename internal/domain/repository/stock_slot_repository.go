package repository

import (
	"context"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockSlotRepository define el puerto de persistencia para los lotes de stock.
type StockSlotRepository interface {
	Create(ctx context.Context, slot *entity.StockSlot) error
	// ListAvailableForUpdate devuelve los lotes del producto con AvailableQuantity > 0,
	// ordenados por fecha de entrada y luego por ID, bloqueando las filas.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.StockSlot, error)
	// ListByProduct devuelve todos los lotes (incluidos los agotados) en orden FIFO.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockSlot, error)
	UpdateAvailable(ctx context.Context, slotID string, available decimal.Decimal) error
}
