package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase alta y consulta de productos. CurrentStock solo cambia vía recepción o salidas FIFO.
type ProductUseCase struct {
	repo     repository.ProductRepository
	slotRepo repository.StockSlotRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, slotRepo repository.StockSlotRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, slotRepo: slotRepo}
}

// CreateProductInput datos para registrar un producto. El stock inicia en 0.
type CreateProductInput struct {
	Reference    string
	Name         string
	Description  string
	Category     string
	MeasureUnit  string
	UnitPrice    decimal.Decimal
	ReorderPoint decimal.Decimal
}

// Create crea un nuevo producto. La referencia debe ser única.
func (uc *ProductUseCase) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Reference == "" || in.Name == "" || in.ReorderPoint.IsNegative() ||
		!entity.FitsScale(in.ReorderPoint) || !entity.FitsScale(in.UnitPrice) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByReference(ctx, in.Reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.MeasureUnit == "" {
		in.MeasureUnit = "UND"
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Reference:    in.Reference,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		MeasureUnit:  in.MeasureUnit,
		UnitPrice:    in.UnitPrice,
		ReorderPoint: in.ReorderPoint,
		CurrentStock: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por ID o ErrProductNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// GetByReference obtiene un producto por su código de referencia (nil si no existe).
func (uc *ProductUseCase) GetByReference(ctx context.Context, reference string) (*entity.Product, error) {
	return uc.repo.GetByReference(ctx, strings.TrimSpace(reference))
}

// GetSlots devuelve el stock agregado del producto y todos sus lotes, incluidos los agotados.
func (uc *ProductUseCase) GetSlots(ctx context.Context, productID string) (*dto.ProductSlotsResponse, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	slots, err := uc.slotRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return dto.ToProductSlotsResponse(product, slots), nil
}
