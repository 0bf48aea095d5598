package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

func TestOpenCart_DireccionInvalida(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.carts.OpenCart(context.Background(), "u-1", "TRANSFER")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenCart_UnCarritoPorUsuario(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.carts.OpenCart(ctx, "u-1", entity.DirectionEntry)
	require.NoError(t, err)

	_, err = f.carts.OpenCart(ctx, "u-1", entity.DirectionExit)
	assert.ErrorIs(t, err, domain.ErrActiveCartExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = f.carts.OpenCart(ctx, "u-2", entity.DirectionExit)
	assert.NoError(t, err, "otro usuario puede tener su propio carrito")
}

func TestScanItem_ReescaneoSumaCantidad(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"X", 2}, scan{"X", 3})

	cart, err := f.carts.GetActiveCart(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, cartID, cart.ID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "X", cart.Lines[0].Barcode)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems)
}

func TestScanItem_NoConsultaCatalogo(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry)

	out, err := f.carts.ScanItem(context.Background(), "u-1", cartID, "  DESCONOCIDO  ", 1)
	require.NoError(t, err, "un código desconocido es un resultado esperado")
	assert.Equal(t, "DESCONOCIDO", out.Lines[0].Barcode, "el código se normaliza sin espacios")
}

func TestScanItem_Validaciones(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry)
	ctx := context.Background()

	cases := []struct {
		name    string
		barcode string
		qty     int
	}{
		{"cantidad cero", "X", 0},
		{"cantidad negativa", "X", -2},
		{"código vacío", "   ", 1},
		{"cantidad fuera de rango", "X", math.MaxInt32 + 1},
		{"cantidad máxima de int", "X", math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.carts.ScanItem(ctx, "u-1", cartID, tc.barcode, tc.qty)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestScanItem_SumaNoDesborda(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"A", math.MaxInt32})

	_, err := f.carts.ScanItem(ctx, "u-1", cartID, "A", 1)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	cart, err := f.carts.GetActiveCart(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, math.MaxInt32, cart.Lines[0].Quantity, "la línea conserva la cantidad previa")

	out, err := f.confirm.Confirm(ctx, cartID, "u-1")
	require.NoError(t, err)
	require.Len(t, out.Unregistered, 1)
	assert.Equal(t, math.MaxInt32, out.Unregistered[0].Quantity)
}

func TestUpdateItemQuantity_ReemplazaNoSuma(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"X", 4})

	out, err := f.carts.UpdateItemQuantity(context.Background(), "u-1", cartID, "X", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Lines[0].Quantity)

	_, err = f.carts.UpdateItemQuantity(context.Background(), "u-1", cartID, "Y", 1)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"X", 1}, scan{"Y", 2})

	out, err := f.carts.RemoveItem(context.Background(), "u-1", cartID, "X")
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "Y", out.Lines[0].Barcode)

	_, err = f.carts.RemoveItem(context.Background(), "u-1", cartID, "X")
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
}

func TestCarritoDeOtroUsuario_NoEncontrado(t *testing.T) {
	f := newFixture(t, true)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"X", 1})
	ctx := context.Background()

	_, err := f.carts.ScanItem(ctx, "u-2", cartID, "X", 1)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	err = f.carts.DiscardCart(ctx, "u-2", cartID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = f.confirm.Confirm(ctx, cartID, "u-2")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestDiscardCart_PermiteAbrirOtro(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"X", 1})

	require.NoError(t, f.carts.DiscardCart(ctx, "u-1", cartID))

	_, err := f.carts.GetActiveCart(ctx, "u-1")
	assert.ErrorIs(t, err, domain.ErrNoActiveCart)
	_, err = f.carts.OpenCart(ctx, "u-1", entity.DirectionExit)
	assert.NoError(t, err)
}
