package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/application/usecase"
)

// ProductHandler maneja productos y la recepción de lotes (protegido).
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	receive *inventory.ReceiveLotUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, receive *inventory.ReceiveLotUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, receive: receive}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	p, err := h.uc.Create(c.UserContext(), usecase.CreateProductInput{
		Reference:    in.Reference,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		MeasureUnit:  in.MeasureUnit,
		UnitPrice:    in.UnitPrice,
		ReorderPoint: in.ReorderPoint,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.GetByID(c.UserContext(), paramID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Slots godoc
// @Summary      Lotes del producto en orden FIFO
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductSlotsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/slots [get]
func (h *ProductHandler) Slots(c *fiber.Ctx) error {
	out, err := h.uc.GetSlots(c.UserContext(), paramID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReceiveLot godoc
// @Summary      Recibir un lote
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.ReceiveLotRequest   true  "Lote recibido"
// @Success      201   {object}  dto.StockSlotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [post]
func (h *ProductHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	input := inventory.ReceiveLotInput{
		ProductID: paramID(c),
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		LotNumber: in.LotNumber,
		Reference: in.Reference,
		UserID:    GetUserID(c),
	}
	if in.EntryDate != nil {
		input.EntryDate = *in.EntryDate
	}
	slot, err := h.receive.Receive(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockSlotResponse(slot))
}
