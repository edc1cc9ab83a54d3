package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSlot es un lote físico recibido de un producto. Nunca se elimina, aunque quede agotado.
// Quantity, UnitPrice y EntryDate son inmutables tras la recepción.
type StockSlot struct {
	ID                string
	ProductID         string
	LotNumber         string
	Quantity          decimal.Decimal // cantidad recibida
	AvailableQuantity decimal.Decimal // remanente; 0 <= AvailableQuantity <= Quantity
	UnitPrice         decimal.Decimal // costo del lote
	EntryDate         time.Time       // clave de orden FIFO
	CreatedAt         time.Time
}

// Valid verifica el invariante 0 <= AvailableQuantity <= Quantity.
func (s *StockSlot) Valid() bool {
	return !s.AvailableQuantity.IsNegative() && s.AvailableQuantity.LessThanOrEqual(s.Quantity)
}

// HasStock indica si al lote le queda cantidad disponible.
func (s *StockSlot) HasStock() bool {
	return s.AvailableQuantity.IsPositive()
}

// Take descuenta min(q, AvailableQuantity) y devuelve lo efectivamente tomado.
func (s *StockSlot) Take(q decimal.Decimal) decimal.Decimal {
	if !q.IsPositive() || !s.HasStock() {
		return decimal.Zero
	}
	taken := decimal.Min(q, s.AvailableQuantity)
	s.AvailableQuantity = s.AvailableQuantity.Sub(taken)
	return taken
}

// Before define el orden FIFO: fecha de entrada ascendente y, a igual fecha, ID ascendente.
func (s *StockSlot) Before(other *StockSlot) bool {
	if !s.EntryDate.Equal(other.EntryDate) {
		return s.EntryDate.Before(other.EntryDate)
	}
	return s.ID < other.ID
}
