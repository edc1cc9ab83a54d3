package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
)

var _ repository.ExitSlipRepository = (*ExitSlipRepo)(nil)

const exitSlipColumns = `id, slip_number, exit_date, destination, reason, status, comment, created_by, validated_by, validated_at, created_at, updated_at`

// ExitSlipRepo implementación de ExitSlipRepository (usable con pool o tx).
type ExitSlipRepo struct {
	q Querier
}

// NewExitSlipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExitSlipRepository(q Querier) *ExitSlipRepo {
	return &ExitSlipRepo{q: q}
}

// Create persiste la cabecera del vale y sus líneas en un solo batch.
func (r *ExitSlipRepo) Create(ctx context.Context, slip *entity.ExitSlip) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO exit_slips (`+exitSlipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		slip.ID, slip.SlipNumber, slip.ExitDate, nullable(slip.Destination), slip.Reason, slip.Status,
		nullable(slip.Comment), nullable(slip.CreatedBy), nullable(slip.ValidatedBy), slip.ValidatedAt,
		slip.CreatedAt, slip.UpdatedAt,
	)
	for _, it := range slip.Items {
		batch.Queue(`
			INSERT INTO exit_slip_items (id, exit_slip_id, position, product_id, requested_quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, slip.ID, it.Position, it.ProductID, it.RequestedQuantity,
		)
	}
	if err := execBatch(ctx, r.q, batch); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert exit slip: %w", err)
	}
	return nil
}

// GetByID obtiene el vale con sus líneas ordenadas por posición.
func (r *ExitSlipRepo) GetByID(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.get(ctx, `SELECT `+exitSlipColumns+` FROM exit_slips WHERE id = $1`, id)
}

// GetForUpdate obtiene el vale bloqueando su fila (SELECT FOR UPDATE).
// Dos validaciones concurrentes del mismo vale quedan serializadas y la segunda ve el estado VALIDATED.
func (r *ExitSlipRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.get(ctx, `SELECT `+exitSlipColumns+` FROM exit_slips WHERE id = $1 FOR UPDATE`, id)
}

func (r *ExitSlipRepo) get(ctx context.Context, query, id string) (*entity.ExitSlip, error) {
	var s entity.ExitSlip
	var destination, comment, createdBy, validatedBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SlipNumber, &s.ExitDate, &destination, &s.Reason, &s.Status, &comment,
		&createdBy, &validatedBy, &s.ValidatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exit slip: %w", err)
	}
	s.Destination = deref(destination)
	s.Comment = deref(comment)
	s.CreatedBy = deref(createdBy)
	s.ValidatedBy = deref(validatedBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, exit_slip_id, position, product_id, requested_quantity
		FROM exit_slip_items WHERE exit_slip_id = $1
		ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list exit slip items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.ExitSlipItem
		if err := rows.Scan(&it.ID, &it.ExitSlipID, &it.Position, &it.ProductID, &it.RequestedQuantity); err != nil {
			return nil, fmt.Errorf("scan exit slip item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exit slip items: %w", err)
	}
	return &s, nil
}

// MarkValidated pasa el vale a VALIDATED y sella quién y cuándo. Solo actúa sobre vales en DRAFT.
func (r *ExitSlipRepo) MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE exit_slips
		SET status = $2, validated_by = $3, validated_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5`,
		id, entity.ExitSlipStatusValidated, nullable(validatedBy), validatedAt, entity.ExitSlipStatusDraft,
	)
	if err != nil {
		return fmt.Errorf("validate exit slip: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// UpdateStatus cambia el estado del vale.
func (r *ExitSlipRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE exit_slips SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update exit slip status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrExitSlipNotFound
	}
	return nil
}
