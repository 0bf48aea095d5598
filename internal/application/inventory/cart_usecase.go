package inventory

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

const maxBarcodeLen = 128

// CartUseCase administra el movimiento temporal (carrito de escaneo) de cada operador.
// El escaneo no consulta el catálogo: un código desconocido es un resultado esperado.
type CartUseCase struct {
	repo repository.CartRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(repo repository.CartRepository) *CartUseCase {
	return &CartUseCase{repo: repo}
}

// OpenCart crea el carrito del usuario. Un usuario tiene como máximo un carrito;
// si ya existe se devuelve domain.ErrActiveCartExists (la BD lo garantiza con un índice único).
func (uc *CartUseCase) OpenCart(ctx context.Context, userID, direction string) (*dto.CartResponse, error) {
	if userID == "" {
		return nil, domain.Invalid("usuario requerido")
	}
	if !entity.ValidDirection(direction) {
		return nil, domain.Invalid("direction debe ser ENTRY o EXIT")
	}
	existing, err := uc.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrActiveCartExists
	}
	cart := &entity.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Direction: direction,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// GetActiveCart devuelve el carrito más reciente del usuario con sus líneas.
func (uc *CartUseCase) GetActiveCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := uc.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNoActiveCart
	}
	return uc.withLines(ctx, cart)
}

// ScanItem suma quantity a la línea del código (la crea si no existe).
func (uc *CartUseCase) ScanItem(ctx context.Context, userID, cartID, barcode string, quantity int) (*dto.CartResponse, error) {
	barcode, err := validateLine(barcode, quantity)
	if err != nil {
		return nil, err
	}
	cart, err := uc.ownedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.AddLine(ctx, cart.ID, barcode, quantity); err != nil {
		return nil, err
	}
	return uc.withLines(ctx, cart)
}

// UpdateItemQuantity reemplaza (no suma) la cantidad de una línea existente.
func (uc *CartUseCase) UpdateItemQuantity(ctx context.Context, userID, cartID, barcode string, quantity int) (*dto.CartResponse, error) {
	barcode, err := validateLine(barcode, quantity)
	if err != nil {
		return nil, err
	}
	cart, err := uc.ownedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	found, err := uc.repo.SetLineQuantity(ctx, cart.ID, barcode, quantity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrCartLineNotFound
	}
	return uc.withLines(ctx, cart)
}

// RemoveItem elimina la línea del código.
func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, cartID, barcode string) (*dto.CartResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Invalid("barcode requerido")
	}
	cart, err := uc.ownedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	found, err := uc.repo.DeleteLine(ctx, cart.ID, barcode)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrCartLineNotFound
	}
	return uc.withLines(ctx, cart)
}

// DiscardCart elimina el carrito sin generar movimiento.
func (uc *CartUseCase) DiscardCart(ctx context.Context, userID, cartID string) error {
	cart, err := uc.ownedCart(ctx, userID, cartID)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, cart.ID)
}

// ownedCart obtiene el carrito; si es de otro usuario se informa como no encontrado.
func (uc *CartUseCase) ownedCart(ctx context.Context, userID, cartID string) (*entity.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("id de carrito requerido")
	}
	cart, err := uc.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.UserID != userID {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

func (uc *CartUseCase) withLines(ctx context.Context, cart *entity.Cart) (*dto.CartResponse, error) {
	lines, err := uc.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return toCartResponse(cart), nil
}

func validateLine(barcode string, quantity int) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", domain.Invalid("barcode requerido")
	}
	if len(barcode) > maxBarcodeLen {
		return "", domain.Invalid("barcode demasiado largo")
	}
	if quantity <= 0 {
		return "", domain.Invalid("quantity debe ser un entero positivo")
	}
	if quantity > math.MaxInt32 {
		return "", domain.ErrQuantityTooLarge
	}
	return barcode, nil
}

func toCartResponse(c *entity.Cart) *dto.CartResponse {
	out := &dto.CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Direction: c.Direction,
		CreatedAt: c.CreatedAt,
		Lines:     make([]dto.CartLineResponse, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, dto.CartLineResponse{Barcode: l.Barcode, Quantity: l.Quantity})
		out.TotalItems += l.Quantity
	}
	return out
}
