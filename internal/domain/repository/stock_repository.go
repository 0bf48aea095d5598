package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// StockRepository es la única vía de escritura sobre el contador de stock.
type StockRepository interface {
	// Adjust aplica delta con piso en cero en una sola operación condicional.
	// ErrInsufficientStock si el resultado sería negativo (stock sin cambios),
	// ErrProductNotFound si el producto no existe.
	Adjust(ctx context.Context, productID string, delta int) (entity.StockChange, error)
}
