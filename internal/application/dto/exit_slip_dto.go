package dto

import (
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateExitSlipRequest body para POST /api/exit-slips.
type CreateExitSlipRequest struct {
	SlipNumber  string                      `json:"slip_number,omitempty" validate:"omitempty,max=64"`
	ExitDate    *time.Time                  `json:"exit_date,omitempty"`
	Destination string                      `json:"destination" validate:"max=255"`
	Reason      string                      `json:"reason" validate:"required,oneof=PRODUCTION SCRAP TRANSFER OTHER"`
	Comment     string                      `json:"comment,omitempty"`
	Items       []CreateExitSlipItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateExitSlipItemRequest una línea del vale a crear.
type CreateExitSlipItemRequest struct {
	ProductID         string          `json:"product_id" validate:"required,max=36"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// ExitSlipResponse salida de un vale de salida.
type ExitSlipResponse struct {
	ID          string                 `json:"id"`
	SlipNumber  string                 `json:"slip_number"`
	ExitDate    time.Time              `json:"exit_date"`
	Destination string                 `json:"destination"`
	Reason      string                 `json:"reason"`
	Status      string                 `json:"status"`
	Comment     string                 `json:"comment,omitempty"`
	CreatedBy   string                 `json:"created_by"`
	ValidatedBy string                 `json:"validated_by,omitempty"`
	ValidatedAt *time.Time             `json:"validated_at,omitempty"`
	Items       []ExitSlipItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ExitSlipItemResponse línea del vale.
type ExitSlipItemResponse struct {
	ID                string          `json:"id"`
	Position          int             `json:"position"`
	ProductID         string          `json:"product_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// InsufficientStockResponse cuerpo 409 cuando el motor FIFO no cubre una línea.
type InsufficientStockResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	ProductID string          `json:"product_id"`
	Reference string          `json:"reference"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// ToExitSlipResponse mapea la entidad a su representación HTTP.
func ToExitSlipResponse(s *entity.ExitSlip) *ExitSlipResponse {
	items := make([]ExitSlipItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, ExitSlipItemResponse{
			ID:                it.ID,
			Position:          it.Position,
			ProductID:         it.ProductID,
			RequestedQuantity: it.RequestedQuantity,
		})
	}
	return &ExitSlipResponse{
		ID:          s.ID,
		SlipNumber:  s.SlipNumber,
		ExitDate:    s.ExitDate,
		Destination: s.Destination,
		Reason:      s.Reason,
		Status:      s.Status,
		Comment:     s.Comment,
		CreatedBy:   s.CreatedBy,
		ValidatedBy: s.ValidatedBy,
		ValidatedAt: s.ValidatedAt,
		Items:       items,
		CreatedAt:   s.CreatedAt,
	}
}
