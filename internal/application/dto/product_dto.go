package dto

import (
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0.
type CreateProductRequest struct {
	Reference    string          `json:"reference" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Category     string          `json:"category" validate:"max=128"`
	MeasureUnit  string          `json:"measure_unit" validate:"max=16"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	MeasureUnit  string          `json:"measure_unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ReceiveLotRequest body para POST /api/products/:id/lots.
type ReceiveLotRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	EntryDate *time.Time      `json:"entry_date,omitempty"`
	LotNumber string          `json:"lot_number" validate:"max=64"`
	Reference string          `json:"reference" validate:"max=64"`
}

// ToProductResponse mapea la entidad.
func ToProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Reference:    p.Reference,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		MeasureUnit:  p.MeasureUnit,
		UnitPrice:    p.UnitPrice,
		ReorderPoint: p.ReorderPoint,
		CurrentStock: p.CurrentStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToStockSlotResponse mapea un lote.
func ToStockSlotResponse(s *entity.StockSlot) StockSlotResponse {
	return StockSlotResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		LotNumber:         s.LotNumber,
		Quantity:          s.Quantity,
		AvailableQuantity: s.AvailableQuantity,
		UnitPrice:         s.UnitPrice,
		EntryDate:         s.EntryDate,
	}
}
