package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CartUC          *inventory.CartUseCase
	ConfirmUC       *inventory.ConfirmMovementUseCase
	PendingReviewUC *inventory.PendingReviewUseCase
	QueryUC         *inventory.QueryUseCase
	JWTSecret       string
	JWTIssuer       string
	Logger          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Carrito de escaneo
	carts := api.Group("/carts")
	cartHandler := NewCartHandler(deps.CartUC, deps.ConfirmUC, log)
	carts.Post("/", cartHandler.Open)
	carts.Get("/active", cartHandler.Active)
	carts.Delete("/:id", cartHandler.Discard)
	carts.Post("/:id/items", cartHandler.Scan)
	carts.Put("/:id/items/:barcode", cartHandler.UpdateItem)
	carts.Delete("/:id/items/:barcode", cartHandler.RemoveItem)
	carts.Post("/:id/confirm", cartHandler.Confirm)

	// Movimientos finalizados
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.QueryUC, deps.PendingReviewUC, log)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Get("/:id/pdf", movementHandler.PDF)
	movements.Post("/:id/pending-reviews", movementHandler.FlagUnregistered)

	api.Get("/products/:id/audit", movementHandler.ProductAudit)

	// Revisiones pendientes: registrar productos solo admin y bodeguero
	reviews := api.Group("/pending-reviews")
	reviewHandler := NewPendingReviewHandler(deps.QueryUC, deps.PendingReviewUC, log)
	reviews.Get("/", reviewHandler.List)
	reviews.Post("/:id/register", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), reviewHandler.Register)
}
