package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/Inventario-lotes/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC       *usecase.ProductUseCase
	ReceiveLot      *inventory.ReceiveLotUseCase
	ExitSlipUC      *inventory.ExitSlipUseCase
	ValidateSlip    *inventory.ValidateExitSlipUseCase
	SearchMovements *inventory.SearchMovementsUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ReceiveLot)
	products.Post("/", writers, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/slots", productHandler.Slots)
	products.Post("/:id/lots", writers, productHandler.ReceiveLot)

	slips := api.Group("/exit-slips")
	slipHandler := NewExitSlipHandler(deps.ExitSlipUC, deps.ValidateSlip)
	slips.Post("/", writers, slipHandler.Create)
	slips.Get("/:id", slipHandler.GetByID)
	slips.Post("/:id/validate", writers, slipHandler.Validate)
	slips.Post("/:id/cancel", writers, slipHandler.Cancel)

	movHandler := NewStockMovementHandler(deps.SearchMovements)
	api.Get("/stock-movements", movHandler.Search)
}
