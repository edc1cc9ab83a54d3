package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
)

// ExitSlipRepository define el puerto de persistencia para vales de salida y sus líneas.
// Los métodos de lectura devuelven (nil, nil) cuando el vale no existe.
type ExitSlipRepository interface {
	// Create persiste el vale y sus líneas.
	Create(ctx context.Context, slip *entity.ExitSlip) error
	GetByID(ctx context.Context, id string) (*entity.ExitSlip, error)
	// GetForUpdate obtiene el vale con sus líneas bloqueando la fila del vale.
	GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error)
	MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) error
	UpdateStatus(ctx context.Context, id, status string) error
}
