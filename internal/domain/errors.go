package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores del flujo de movimientos. Cada uno envuelve a su clase (not-found o conflicto)
// para que errors.Is(err, ErrNotFound) / errors.Is(err, ErrConflict) sigan funcionando.
var (
	ErrCartNotFound          = fmt.Errorf("carrito no encontrado: %w", ErrNotFound)
	ErrNoActiveCart          = fmt.Errorf("no hay carrito activo: %w", ErrNotFound)
	ErrCartLineNotFound      = fmt.Errorf("línea de carrito no encontrada: %w", ErrNotFound)
	ErrMovementNotFound      = fmt.Errorf("movimiento no encontrado: %w", ErrNotFound)
	ErrPendingReviewNotFound = fmt.Errorf("revisión pendiente no encontrada: %w", ErrNotFound)
	ErrProductNotFound       = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrCategoryNotFound      = fmt.Errorf("categoría no encontrada: %w", ErrNotFound)

	ErrQuantityTooLarge = fmt.Errorf("la cantidad de la línea supera el máximo permitido: %w", ErrInvalidInput)

	ErrEmptyCart             = fmt.Errorf("el carrito no tiene líneas: %w", ErrConflict)
	ErrActiveCartExists      = fmt.Errorf("el usuario ya tiene un carrito activo: %w", ErrConflict)
	ErrNothingToFlag         = fmt.Errorf("no hay líneas sin registrar pendientes de marcar: %w", ErrConflict)
	ErrLineAlreadyRegistered = fmt.Errorf("la línea del movimiento ya está registrada: %w", ErrConflict)
)

// Kind clasifica un error en una de las cuatro familias estables expuestas al cliente.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// KindOf devuelve la familia del error. Stock insuficiente y duplicados son conflictos.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrDuplicate):
		return KindConflict
	default:
		return KindInternal
	}
}

// Invalid envuelve ErrInvalidInput con un detalle legible para el cliente.
func Invalid(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, detail)
}
