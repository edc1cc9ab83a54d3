package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockSlotRepository = (*StockSlotRepo)(nil)

const slotColumns = `id, product_id, lot_number, quantity, available_quantity, unit_price, entry_date, created_at`

// StockSlotRepo implementación de StockSlotRepository sobre PostgreSQL (usable con pool o tx).
type StockSlotRepo struct {
	q Querier
}

// NewStockSlotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockSlotRepository(q Querier) *StockSlotRepo {
	return &StockSlotRepo{q: q}
}

// Create inserta un lote recibido.
func (r *StockSlotRepo) Create(ctx context.Context, slot *entity.StockSlot) error {
	query := `
		INSERT INTO stock_slots (` + slotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		slot.ID, slot.ProductID, nullable(slot.LotNumber), slot.Quantity, slot.AvailableQuantity,
		slot.UnitPrice, slot.EntryDate, slot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert stock slot: %w", err)
	}
	return nil
}

// ListAvailableForUpdate lotes con disponible > 0 en orden FIFO, bloqueando las filas (SELECT FOR UPDATE).
func (r *StockSlotRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.StockSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM stock_slots
		WHERE product_id = $1 AND available_quantity > 0
		ORDER BY entry_date ASC, id ASC
		FOR UPDATE`
	return r.list(ctx, query, productID)
}

// ListByProduct todos los lotes del producto, incluidos los agotados, en orden FIFO.
func (r *StockSlotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM stock_slots
		WHERE product_id = $1
		ORDER BY entry_date ASC, id ASC`
	return r.list(ctx, query, productID)
}

func (r *StockSlotRepo) list(ctx context.Context, query, productID string) ([]*entity.StockSlot, error) {
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock slots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockSlot
	for rows.Next() {
		var s entity.StockSlot
		var lot *string
		if err := rows.Scan(&s.ID, &s.ProductID, &lot, &s.Quantity, &s.AvailableQuantity,
			&s.UnitPrice, &s.EntryDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock slot: %w", err)
		}
		s.LotNumber = deref(lot)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateAvailable fija el disponible del lote. El CHECK de la tabla rechaza valores fuera de [0, quantity].
func (r *StockSlotRepo) UpdateAvailable(ctx context.Context, slotID string, available decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_slots SET available_quantity = $2 WHERE id = $1`,
		slotID, available,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update stock slot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
