package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// CartRepository puerto de persistencia del movimiento temporal (carrito) y sus líneas.
// Los Get devuelven (nil, nil) cuando el registro no existe.
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	GetByID(ctx context.Context, id string) (*entity.Cart, error)
	// GetForUpdate bloquea la fila del carrito (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Cart, error)
	// GetLatestByUser devuelve el carrito más reciente del usuario.
	GetLatestByUser(ctx context.Context, userID string) (*entity.Cart, error)
	ListLines(ctx context.Context, cartID string) ([]*entity.CartLine, error)
	// AddLine inserta la línea o incrementa su cantidad si el código ya estaba en el carrito.
	AddLine(ctx context.Context, cartID, barcode string, quantity int) (*entity.CartLine, error)
	// SetLineQuantity reemplaza la cantidad; false si la línea no existe.
	SetLineQuantity(ctx context.Context, cartID, barcode string, quantity int) (bool, error)
	// DeleteLine elimina la línea; false si no existía.
	DeleteLine(ctx context.Context, cartID, barcode string) (bool, error)
	// Delete elimina el carrito y todas sus líneas.
	Delete(ctx context.Context, cartID string) error
}
