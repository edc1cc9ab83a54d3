package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrInsufficientStock = errors.New("stock insuficiente")

	ErrExitSlipNotFound = fmt.Errorf("vale de salida: %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("producto: %w", ErrNotFound)
)

// InsufficientStockError detalla el faltante de un producto al asignar lotes FIFO.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ProductID string
	Reference string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s (%s): solicitado %s, disponible %s",
		e.Reference, e.ProductID, e.Requested.String(), e.Available.String())
}

// Shortfall cantidad que faltó para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
