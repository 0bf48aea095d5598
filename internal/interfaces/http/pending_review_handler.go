package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// PendingReviewHandler resolución de códigos sin registrar (protegido).
type PendingReviewHandler struct {
	query   *inventory.QueryUseCase
	reviews *inventory.PendingReviewUseCase
	log     *logger.Logger
}

// NewPendingReviewHandler construye el handler.
func NewPendingReviewHandler(query *inventory.QueryUseCase, reviews *inventory.PendingReviewUseCase, log *logger.Logger) *PendingReviewHandler {
	return &PendingReviewHandler{query: query, reviews: reviews, log: log}
}

// List godoc
// @Summary      Listar revisiones pendientes
// @Tags         pending-reviews
// @Security     Bearer
// @Produce      json
// @Param        movement_id  query  string  false  "Filtrar por movimiento"
// @Param        limit        query  int     false  "Máximo 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.PendingReviewListResponse
// @Router       /api/pending-reviews [get]
func (h *PendingReviewHandler) List(c *fiber.Ctx) error {
	out, err := h.query.ListPendingReviews(c.UserContext(), c.Query("movement_id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar producto desde una revisión pendiente
// @Description  Crea el producto con stock inicial igual a la cantidad pendiente. Si era la última
// @Description  línea sin registrar, el movimiento pasa a COMPLETED. Si el código ya tiene producto,
// @Description  vincula la línea y aplica la cantidad a su stock. Solo admin y bodeguero.
// @Tags         pending-reviews
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la revisión"
// @Param        body  body  dto.RegisterProductRequest  true  "name, category_id, min_stock, price, description"
// @Success      201   {object}  dto.RegisterProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "DUPLICATE | LINE_ALREADY_REGISTERED | INSUFFICIENT_STOCK"
// @Router       /api/pending-reviews/{id}/register [post]
func (h *PendingReviewHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.reviews.RegisterProduct(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
