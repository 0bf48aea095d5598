package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// PendingReviewFilter filtros del listado de revisiones pendientes.
type PendingReviewFilter struct {
	MovementID string
	Limit      int
	Offset     int
}

// PendingReviewRepository puerto de persistencia de revisiones pendientes.
type PendingReviewRepository interface {
	// CreateIfAbsent inserta la revisión salvo que ya exista una para (movimiento, código).
	// Devuelve true si se insertó.
	CreateIfAbsent(ctx context.Context, review *entity.PendingReview) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.PendingReview, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PendingReview, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PendingReviewFilter) ([]*entity.PendingReview, error)
}
