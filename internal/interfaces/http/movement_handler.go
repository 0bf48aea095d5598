package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// MovementHandler consulta de movimientos, comprobante PDF y bitácora de productos (protegido).
type MovementHandler struct {
	query   *inventory.QueryUseCase
	reviews *inventory.PendingReviewUseCase
	log     *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(query *inventory.QueryUseCase, reviews *inventory.PendingReviewUseCase, log *logger.Logger) *MovementHandler {
	return &MovementHandler{query: query, reviews: reviews, log: log}
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "COMPLETED | COMPLETED_WITH_UNREGISTERED"
// @Param        created_by  query  string  false  "Filtrar por operador"
// @Param        limit       query  int     false  "Máximo 100"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	out, err := h.query.ListMovements(c.UserContext(), c.Query("status"), c.Query("created_by"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento con sus líneas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Comprobante PDF del movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/pdf [get]
func (h *MovementHandler) PDF(c *fiber.Ctx) error {
	pdf, err := h.query.MovementPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="movimiento-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// FlagUnregistered godoc
// @Summary      Crear revisiones pendientes del movimiento
// @Description  Una revisión por cada línea UNREGISTERED que aún no tenga una. Idempotente.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.FlagUnregisteredResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NOTHING_TO_FLAG"
// @Router       /api/movements/{id}/pending-reviews [post]
func (h *MovementHandler) FlagUnregistered(c *fiber.Ctx) error {
	out, err := h.reviews.FlagUnregistered(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ProductAudit godoc
// @Summary      Bitácora de auditoría de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Máximo 100"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.AuditEntryResponse
// @Router       /api/products/{id}/audit [get]
func (h *MovementHandler) ProductAudit(c *fiber.Ctx) error {
	out, err := h.query.ProductAudit(c.UserContext(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
