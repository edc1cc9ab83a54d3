package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. Quantity siempre es positiva; el tipo indica la dirección.
const (
	MovementTypeReception = "RECEPTION" // entrada de un lote
	MovementTypeExit      = "EXIT"      // salida contra un lote
)

// ValidMovementType indica si el tipo pertenece al catálogo.
func ValidMovementType(t string) bool {
	return t == MovementTypeReception || t == MovementTypeExit
}

// StockMovement registro inmutable de una transferencia de cantidad entre un lote y el exterior.
// Hay exactamente un movimiento EXIT por cada par (línea del vale, lote) tocado.
type StockMovement struct {
	ID             string
	ProductID      string
	StockSlotID    string
	ExitSlipID     string // vacío en recepciones
	ExitSlipItemID string
	Type           string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal // costo del lote de origen
	Date           time.Time
	Reference      string // texto libre: número de vale, remisión, etc.
	CreatedAt      time.Time
	CreatedBy      string
}

// MovementView movimiento con los datos unidos de producto y lote (modelo de lectura para búsquedas).
type MovementView struct {
	StockMovement
	ProductReference string
	LotNumber        string
}
