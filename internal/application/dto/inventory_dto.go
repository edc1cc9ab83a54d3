package dto

import (
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementResponse salida de un movimiento del historial.
type StockMovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductReference string          `json:"product_reference"`
	StockSlotID      string          `json:"stock_slot_id"`
	LotNumber        string          `json:"lot_number,omitempty"`
	ExitSlipID       string          `json:"exit_slip_id,omitempty"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Date             time.Time       `json:"date"`
	Reference        string          `json:"reference,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// StockSlotResponse salida de un lote de stock.
type StockSlotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LotNumber         string          `json:"lot_number,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	EntryDate         time.Time       `json:"entry_date"`
}

// ProductSlotsResponse stock agregado de un producto con el detalle de sus lotes en orden FIFO.
type ProductSlotsResponse struct {
	ProductID    string              `json:"product_id"`
	Reference    string              `json:"reference"`
	Name         string              `json:"name"`
	CurrentStock decimal.Decimal     `json:"current_stock"`
	ReorderPoint decimal.Decimal     `json:"reorder_point"`
	Slots        []StockSlotResponse `json:"slots"`
}

// ToStockMovementResponses mapea el resultado de una búsqueda.
func ToStockMovementResponses(list []*entity.MovementView) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, StockMovementResponse{
			ID:               m.ID,
			ProductID:        m.ProductID,
			ProductReference: m.ProductReference,
			StockSlotID:      m.StockSlotID,
			LotNumber:        m.LotNumber,
			ExitSlipID:       m.ExitSlipID,
			Type:             m.Type,
			Quantity:         m.Quantity,
			UnitPrice:        m.UnitPrice,
			Date:             m.Date,
			Reference:        m.Reference,
			CreatedBy:        m.CreatedBy,
		})
	}
	return out
}

// ToProductSlotsResponse mapea un producto y sus lotes.
func ToProductSlotsResponse(p *entity.Product, slots []*entity.StockSlot) *ProductSlotsResponse {
	out := &ProductSlotsResponse{
		ProductID:    p.ID,
		Reference:    p.Reference,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
		ReorderPoint: p.ReorderPoint,
		Slots:        make([]StockSlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		out.Slots = append(out.Slots, ToStockSlotResponse(s))
	}
	return out
}
