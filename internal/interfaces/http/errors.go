package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// Códigos específicos; el resto de errores usa el nombre de su familia (domain.Kind).
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrEmptyCart, "EMPTY_CART"},
	{domain.ErrActiveCartExists, "ACTIVE_CART_EXISTS"},
	{domain.ErrNothingToFlag, "NOTHING_TO_FLAG"},
	{domain.ErrLineAlreadyRegistered, "LINE_ALREADY_REGISTERED"},
	{domain.ErrDuplicate, "DUPLICATE"},
}

// writeError traduce un error de dominio a su respuesta HTTP.
// Los errores internos se registran y al cliente solo llega un mensaje genérico.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case domain.KindValidation:
		status = fiber.StatusBadRequest
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindConflict:
		status = fiber.StatusConflict
	}
	if kind == domain.KindInternal {
		log.WithTrace(c.UserContext()).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: string(domain.KindInternal), Message: "error interno"})
	}

	code := string(kind)
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			code = ec.code
			break
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	page.Normalize()
	return page
}
