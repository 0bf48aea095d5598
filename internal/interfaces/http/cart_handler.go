package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// CartHandler maneja el carrito de escaneo y su confirmación (protegido).
type CartHandler struct {
	carts   *inventory.CartUseCase
	confirm *inventory.ConfirmMovementUseCase
	log     *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(carts *inventory.CartUseCase, confirm *inventory.ConfirmMovementUseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{carts: carts, confirm: confirm, log: log}
}

// Open godoc
// @Summary      Abrir carrito de escaneo
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCartRequest  true  "direction: ENTRY | EXIT"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/carts [post]
func (h *CartHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.carts.OpenCart(c.UserContext(), GetUserID(c), in.Direction)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Active godoc
// @Summary      Carrito activo del operador
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/active [get]
func (h *CartHandler) Active(c *fiber.Ctx) error {
	out, err := h.carts.GetActiveCart(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Discard godoc
// @Summary      Descartar carrito sin generar movimiento
// @Tags         carts
// @Security     Bearer
// @Param        id   path  string  true  "ID del carrito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{id} [delete]
func (h *CartHandler) Discard(c *fiber.Ctx) error {
	if err := h.carts.DiscardCart(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Scan godoc
// @Summary      Escanear código de barras
// @Description  Suma la cantidad a la línea del código (la crea si no existe). No consulta el catálogo.
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del carrito"
// @Param        body  body  dto.ScanItemRequest  true  "barcode, quantity > 0"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items [post]
func (h *CartHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.carts.ScanItem(c.UserContext(), GetUserID(c), c.Params("id"), in.Barcode, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Reemplazar cantidad de una línea
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "ID del carrito"
// @Param        barcode  path  string                 true  "Código de barras"
// @Param        body     body  dto.UpdateItemRequest  true  "quantity > 0"
// @Success      200      {object}  dto.CartResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items/{barcode} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.carts.UpdateItemQuantity(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("barcode"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar una línea del carrito
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID del carrito"
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200      {object}  dto.CartResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items/{barcode} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.carts.RemoveItem(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("barcode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar carrito
// @Description  Convierte el carrito en un movimiento permanente, ajusta stock de las líneas
// @Description  registradas y reporta los códigos desconocidos. Todo o nada.
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del carrito"
// @Success      201  {object}  dto.ConfirmMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "EMPTY_CART | INSUFFICIENT_STOCK"
// @Router       /api/carts/{id}/confirm [post]
func (h *CartHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.confirm.Confirm(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
