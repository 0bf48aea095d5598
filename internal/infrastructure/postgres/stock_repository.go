package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Adjust suma delta al stock en una sola sentencia condicional: la fila solo se actualiza si
// el resultado no es negativo. Dos salidas concurrentes sobre el mismo producto se serializan
// en el lock de fila y la segunda reevalúa el predicado con el valor ya confirmado.
func (r *StockRepo) Adjust(ctx context.Context, productID string, delta int) (entity.StockChange, error) {
	if !validID(productID) {
		return entity.StockChange{}, domain.ErrProductNotFound
	}
	query := `
		UPDATE products SET stock = stock + $2::int, updated_at = now()
		WHERE id = $1 AND stock + $2::int >= 0
		RETURNING stock - $2::int, stock, min_stock`
	change := entity.StockChange{ProductID: productID, Delta: delta}
	err := r.q.QueryRow(ctx, query, productID, delta).Scan(&change.Previous, &change.Current, &change.MinStock)
	if err == nil {
		return change, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return entity.StockChange{}, fmt.Errorf("adjust stock: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return entity.StockChange{}, fmt.Errorf("adjust stock: %w", err)
	}
	if !exists {
		return entity.StockChange{}, domain.ErrProductNotFound
	}
	return entity.StockChange{}, domain.ErrInsufficientStock
}
