package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si no, Commit. Garantiza atomicidad del motor FIFO.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		slipRepo repository.ExitSlipRepository,
		productRepo repository.ProductRepository,
		slotRepo repository.StockSlotRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// EventPublisher publica eventos de dominio después del Commit.
type EventPublisher interface {
	PublishExitSlipValidated(ctx context.Context, evt ExitSlipValidatedEvent) error
}

// ExitSlipValidatedEvent se emite cuando un vale de salida queda validado.
type ExitSlipValidatedEvent struct {
	ExitSlipID  string               `json:"exit_slip_id"`
	SlipNumber  string               `json:"slip_number"`
	ValidatedBy string               `json:"validated_by"`
	ValidatedAt time.Time            `json:"validated_at"`
	Movements   []MovementEventEntry `json:"movements"`
}

// MovementEventEntry resumen de un movimiento de salida dentro del evento.
type MovementEventEntry struct {
	ProductID   string          `json:"product_id"`
	StockSlotID string          `json:"stock_slot_id"`
	LotNumber   string          `json:"lot_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Resultados de validación para métricas.
const (
	OutcomeValidated         = "validated"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeRejected          = "rejected"
	OutcomeError             = "error"
)

// Metrics registra el resultado de las validaciones del motor FIFO.
type Metrics interface {
	ObserveValidation(outcome string, elapsed time.Duration)
	AddMovements(movementType string, n int)
}

type nopPublisher struct{}

func (nopPublisher) PublishExitSlipValidated(context.Context, ExitSlipValidatedEvent) error {
	return nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveValidation(string, time.Duration) {}
func (nopMetrics) AddMovements(string, int)                {}
