package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	domaininv "github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
)

// StockMovementHandler consulta del historial de movimientos (protegido).
type StockMovementHandler struct {
	uc *inventory.SearchMovementsUseCase
}

// NewStockMovementHandler construye el handler.
func NewStockMovementHandler(uc *inventory.SearchMovementsUseCase) *StockMovementHandler {
	return &StockMovementHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar movimientos de stock
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (RFC3339, inclusivo)"
// @Param        end_date    query  string  false  "Hasta (RFC3339, inclusivo)"
// @Param        product_id  query  string  false  "ID de producto"
// @Param        reference   query  string  false  "Referencia del producto"
// @Param        type        query  string  false  "RECEPTION | EXIT"
// @Param        lot_number  query  string  false  "Número de lote"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *StockMovementHandler) Search(c *fiber.Ctx) error {
	var criteria domaininv.MovementCriteria
	var err error
	if criteria.StartDate, err = queryTime(c, "start_date"); err != nil {
		return badRequest(c, "INVALID_DATE", "start_date debe ser RFC3339")
	}
	if criteria.EndDate, err = queryTime(c, "end_date"); err != nil {
		return badRequest(c, "INVALID_DATE", "end_date debe ser RFC3339")
	}
	criteria.ProductID = queryString(c, "product_id")
	criteria.Reference = queryString(c, "reference")
	criteria.Type = queryString(c, "type")
	criteria.LotNumber = queryString(c, "lot_number")

	list, err := h.uc.Search(c.UserContext(), criteria)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStockMovementResponses(list))
}

// queryString devuelve nil si el parámetro está ausente o vacío.
func queryString(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
