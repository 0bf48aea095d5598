package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// ProductRepository puerto del catálogo de productos (colaborador externo al flujo).
type ProductRepository interface {
	// Create persiste el producto; ErrDuplicate si el código de barras ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	GetStock(ctx context.Context, productID string) (int, error)
}
