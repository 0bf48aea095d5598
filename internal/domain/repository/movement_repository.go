package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	Status    string
	CreatedBy string
	Limit     int
	Offset    int
}

// MovementRepository puerto de persistencia de movimientos finalizados y sus líneas.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	CreateLine(ctx context.Context, line *entity.MovementLine) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento; serializa a los resolutores concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	ListLines(ctx context.Context, movementID string) ([]*entity.MovementLine, error)
	// RegisterLine pasa la línea (movimiento, código) de UNREGISTERED a REGISTERED.
	// Devuelve false si no había una línea UNREGISTERED que actualizar.
	RegisterLine(ctx context.Context, movementID, barcode, productID string) (bool, error)
	CountUnregistered(ctx context.Context, movementID string) (int, error)
	// MarkCompletedIfResolved aplica COMPLETED_WITH_UNREGISTERED -> COMPLETED solo si
	// el estado actual lo permite y no quedan líneas UNREGISTERED. Devuelve si hubo cambio.
	MarkCompletedIfResolved(ctx context.Context, movementID string) (bool, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
