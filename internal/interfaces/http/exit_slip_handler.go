package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
)

// ExitSlipHandler maneja el ciclo de vida de los vales de salida (protegido).
type ExitSlipHandler struct {
	slips    *inventory.ExitSlipUseCase
	validate *inventory.ValidateExitSlipUseCase
}

// NewExitSlipHandler construye el handler.
func NewExitSlipHandler(slips *inventory.ExitSlipUseCase, validate *inventory.ValidateExitSlipUseCase) *ExitSlipHandler {
	return &ExitSlipHandler{slips: slips, validate: validate}
}

// Create godoc
// @Summary      Crear vale de salida (DRAFT)
// @Tags         exit-slips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExitSlipRequest  true  "Vale y líneas"
// @Success      201   {object}  dto.ExitSlipResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/exit-slips [post]
func (h *ExitSlipHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExitSlipRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	slip, err := h.slips.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToExitSlipResponse(slip))
}

// GetByID godoc
// @Summary      Obtener vale de salida
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.ExitSlipResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exit-slips/{id} [get]
func (h *ExitSlipHandler) GetByID(c *fiber.Ctx) error {
	slip, err := h.slips.GetByID(c.UserContext(), paramID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToExitSlipResponse(slip))
}

// Validate godoc
// @Summary      Validar vale de salida (asignación FIFO)
// @Description  Descuenta los lotes del más antiguo al más reciente. Todo o nada.
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.ExitSlipResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /api/exit-slips/{id}/validate [post]
func (h *ExitSlipHandler) Validate(c *fiber.Ctx) error {
	slip, err := h.validate.Validate(c.UserContext(), paramID(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToExitSlipResponse(slip))
}

// Cancel godoc
// @Summary      Anular vale de salida en DRAFT
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.ExitSlipResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/exit-slips/{id}/cancel [post]
func (h *ExitSlipHandler) Cancel(c *fiber.Ctx) error {
	slip, err := h.slips.Cancel(c.UserContext(), paramID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToExitSlipResponse(slip))
}
