package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almacén.
// CurrentStock es un valor derivado: siempre igual a la suma de AvailableQuantity de sus lotes.
// Solo lo modifican el motor de salidas FIFO y la recepción de lotes.
type Product struct {
	ID           string
	Reference    string // código de negocio único
	Name         string
	Description  string
	Category     string
	MeasureUnit  string
	UnitPrice    decimal.Decimal // precio de catálogo (no interviene en la valorización FIFO)
	ReorderPoint decimal.Decimal
	CurrentStock decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowReorderPoint indica si el stock actual cayó al punto de reorden o por debajo.
func (p *Product) BelowReorderPoint() bool {
	return p.CurrentStock.LessThanOrEqual(p.ReorderPoint)
}
