package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx). Solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// CreateBatch inserta los movimientos con un único round-trip (pgx.Batch).
func (r *StockMovementRepo) CreateBatch(ctx context.Context, movements []*entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	query := `
		INSERT INTO stock_movements (id, product_id, stock_slot_id, exit_slip_id, exit_slip_item_id, type, quantity, unit_price, date, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(query,
			m.ID, m.ProductID, m.StockSlotID, nullable(m.ExitSlipID), nullable(m.ExitSlipItemID),
			m.Type, m.Quantity, m.UnitPrice, m.Date, nullable(m.Reference), m.CreatedAt, nullable(m.CreatedBy),
		)
	}
	if err := execBatch(ctx, r.q, batch); err != nil {
		return fmt.Errorf("insert stock movements: %w", err)
	}
	return nil
}

// columnas SQL por campo del filtro; reference y lot_number salen de los joins.
var filterColumns = map[inventory.Field]string{
	inventory.FieldDate:             "m.date",
	inventory.FieldProductID:        "m.product_id",
	inventory.FieldProductReference: "p.reference",
	inventory.FieldType:             "m.type",
	inventory.FieldLotNumber:        "s.lot_number",
}

// buildMovementQuery traduce el filtro de dominio a SQL parametrizado.
func buildMovementQuery(filter inventory.MovementFilter) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.id, m.product_id, m.stock_slot_id, m.exit_slip_id, m.exit_slip_item_id, m.type,
		       m.quantity, m.unit_price, m.date, m.reference, m.created_at, m.created_by,
		       p.reference, s.lot_number
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		JOIN stock_slots s ON s.id = m.stock_slot_id`)
	args := []any{}
	for i, cond := range filter.Conditions {
		col, ok := filterColumns[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("campo de filtro no soportado: %s", cond.Field)
		}
		if i == 0 {
			sb.WriteString("\n\t\tWHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		switch cond.Op {
		case inventory.OpBetween:
			fmt.Fprintf(&sb, "%s BETWEEN $%d AND $%d", col, len(args)+1, len(args)+2)
			args = append(args, cond.Values[0], cond.Values[1])
		case inventory.OpEq, inventory.OpGte, inventory.OpLte:
			fmt.Fprintf(&sb, "%s %s $%d", col, cond.Op, len(args)+1)
			args = append(args, cond.Values[0])
		default:
			return "", nil, fmt.Errorf("operador de filtro no soportado: %s", cond.Op)
		}
	}
	sb.WriteString("\n\t\tORDER BY m.date ASC, m.id ASC")
	return sb.String(), args, nil
}

// Search ejecuta la búsqueda combinando con AND las condiciones del filtro.
func (r *StockMovementRepo) Search(ctx context.Context, filter inventory.MovementFilter) ([]*entity.MovementView, error) {
	query, args, err := buildMovementQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search stock movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.MovementView{}
	for rows.Next() {
		var v entity.MovementView
		var exitSlipID, exitSlipItemID, reference, createdBy, lot *string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.StockSlotID, &exitSlipID, &exitSlipItemID, &v.Type,
			&v.Quantity, &v.UnitPrice, &v.Date, &reference, &v.CreatedAt, &createdBy,
			&v.ProductReference, &lot); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		v.ExitSlipID = deref(exitSlipID)
		v.ExitSlipItemID = deref(exitSlipItemID)
		v.Reference = deref(reference)
		v.CreatedBy = deref(createdBy)
		v.LotNumber = deref(lot)
		list = append(list, &v)
	}
	return list, rows.Err()
}
