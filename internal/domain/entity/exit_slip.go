package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del vale de salida.
const (
	ExitSlipStatusDraft     = "DRAFT"
	ExitSlipStatusValidated = "VALIDATED"
	ExitSlipStatusCancelled = "CANCELLED"
)

// Motivos de salida.
const (
	ExitReasonProduction = "PRODUCTION" // consumo en taller/producción
	ExitReasonScrap      = "SCRAP"      // merma o destrucción
	ExitReasonTransfer   = "TRANSFER"   // traslado a otro sitio
	ExitReasonOther      = "OTHER"
)

// ValidExitReason indica si el motivo pertenece al catálogo.
func ValidExitReason(r string) bool {
	switch r {
	case ExitReasonProduction, ExitReasonScrap, ExitReasonTransfer, ExitReasonOther:
		return true
	}
	return false
}

// ExitSlip documento de salida de mercancía. Se crea en DRAFT; el motor FIFO lo pasa a VALIDATED.
type ExitSlip struct {
	ID          string
	SlipNumber  string
	ExitDate    time.Time
	Destination string
	Reason      string
	Status      string
	Comment     string
	CreatedBy   string
	ValidatedBy string
	ValidatedAt *time.Time
	Items       []ExitSlipItem // ordenados por Position
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDraft indica si el vale aún puede validarse o cancelarse.
func (s *ExitSlip) IsDraft() bool {
	return s.Status == ExitSlipStatusDraft
}

// ExitSlipItem una línea del vale de salida.
type ExitSlipItem struct {
	ID                string
	ExitSlipID        string
	Position          int
	ProductID         string
	RequestedQuantity decimal.Decimal
}
