package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// confirmedWithUnknown confirma un carrito de entrada con los códigos desconocidos dados.
func (f *fixture) confirmedWithUnknown(t *testing.T, scans ...scan) string {
	t.Helper()
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scans...)
	res, err := f.confirm.Confirm(context.Background(), cartID, "u-1")
	require.NoError(t, err)
	require.Equal(t, entity.MovementStatusCompletedWithUnregistered, res.Status)
	return res.MovementID
}

func TestFlagUnregistered_Idempotente(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.product(t, "A", 1, 0)
	movID := f.confirmedWithUnknown(t, scan{"A", 1}, scan{"X", 2}, scan{"Y", 4})

	res, err := f.reviews.FlagUnregistered(ctx, movID, "u-admin")
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	got := map[string]int{}
	for _, pr := range res.Created {
		got[pr.Barcode] = pr.Quantity
		assert.Equal(t, movID, pr.MovementID)
		assert.Equal(t, "u-admin", pr.CreatedBy)
	}
	assert.Equal(t, map[string]int{"X": 2, "Y": 4}, got)

	_, err = f.reviews.FlagUnregistered(ctx, movID, "u-admin")
	assert.ErrorIs(t, err, domain.ErrNothingToFlag)
	assert.True(t, inventory.IsNothingToFlag(err))

	list, err := f.query.ListPendingReviews(ctx, movID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "la segunda llamada no duplica")
}

func TestFlagUnregistered_MovimientoCompleto(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "A", 1, 0)
	cartID := f.cartWith(t, "u-1", entity.DirectionEntry, scan{"A", 1})
	res, err := f.confirm.Confirm(context.Background(), cartID, "u-1")
	require.NoError(t, err)

	_, err = f.reviews.FlagUnregistered(context.Background(), res.MovementID, "u-1")
	assert.ErrorIs(t, err, domain.ErrNothingToFlag)
}

func TestFlagUnregistered_MovimientoInexistente(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.reviews.FlagUnregistered(context.Background(), uuid.New().String(), "u-1")
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestRegisterProduct_ConvergeACompleted(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 2}, scan{"Y", 4})
	flagged, err := f.reviews.FlagUnregistered(ctx, movID, "u-1")
	require.NoError(t, err)
	require.Len(t, flagged.Created, 2)

	first, second := flagged.Created[0], flagged.Created[1]

	res, err := f.reviews.RegisterProduct(ctx, first.ID, f.registerRequest("Primero"), "u-admin")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompletedWithUnregistered, res.MovementStatus, "aún queda una línea")
	assert.Equal(t, 1, res.RemainingUnregistered)
	assert.Equal(t, first.Barcode, res.Product.Barcode)
	assert.Equal(t, first.Quantity, res.Product.Stock, "el stock inicial es la cantidad pendiente")
	assert.Equal(t, f.categoryID, res.Product.CategoryID)
	assert.Equal(t, first.Quantity, f.stock(t, res.Product.ID))

	res, err = f.reviews.RegisterProduct(ctx, second.ID, f.registerRequest("Segundo"), "u-admin")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompleted, res.MovementStatus)
	assert.Zero(t, res.RemainingUnregistered)

	mov := f.movement(t, movID)
	assert.Equal(t, entity.MovementStatusCompleted, mov.Status)
	for _, l := range mov.Lines {
		assert.Equal(t, entity.LineStatusRegistered, l.Status)
		assert.NotEmpty(t, l.ProductID)
	}

	list, err := f.query.ListPendingReviews(ctx, movID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	entries, err := f.query.ProductAudit(ctx, res.Product.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionProductFromPending, entries[0].Action)
	assert.Equal(t, "u-admin", entries[0].UserID)
}

func TestRegisterProduct_RevisionYaResuelta(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 1})
	flagged, err := f.reviews.FlagUnregistered(ctx, movID, "u-1")
	require.NoError(t, err)
	prID := flagged.Created[0].ID

	_, err = f.reviews.RegisterProduct(ctx, prID, f.registerRequest("X"), "u-1")
	require.NoError(t, err)

	_, err = f.reviews.RegisterProduct(ctx, prID, f.registerRequest("X"), "u-1")
	assert.ErrorIs(t, err, domain.ErrPendingReviewNotFound)
}

func TestRegisterProduct_MismoCodigoEnDosMovimientos(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movA := f.confirmedWithUnknown(t, scan{"NEW", 2})
	movB := f.confirmedWithUnknown(t, scan{"NEW", 5})
	flagA, err := f.reviews.FlagUnregistered(ctx, movA, "u-1")
	require.NoError(t, err)
	flagB, err := f.reviews.FlagUnregistered(ctx, movB, "u-1")
	require.NoError(t, err)

	first, err := f.reviews.RegisterProduct(ctx, flagA.Created[0].ID, f.registerRequest("Nuevo"), "u-admin")
	require.NoError(t, err)
	assert.False(t, first.LinkedExisting)
	assert.Equal(t, 2, first.Product.Stock)

	second, err := f.reviews.RegisterProduct(ctx, flagB.Created[0].ID, f.registerRequest("Nuevo"), "u-admin")
	require.NoError(t, err)
	assert.True(t, second.LinkedExisting, "el código ya tenía producto")
	assert.Equal(t, first.Product.ID, second.Product.ID)
	assert.Equal(t, 7, second.Product.Stock)
	assert.Equal(t, entity.MovementStatusCompleted, second.MovementStatus)
	assert.Zero(t, second.RemainingUnregistered)
	assert.Equal(t, 7, f.stock(t, first.Product.ID))

	for _, id := range []string{movA, movB} {
		mov := f.movement(t, id)
		assert.Equal(t, entity.MovementStatusCompleted, mov.Status)
		require.Len(t, mov.Lines, 1)
		assert.Equal(t, first.Product.ID, mov.Lines[0].ProductID)
	}
	list, err := f.query.ListPendingReviews(ctx, movB, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	entries, err := f.query.ProductAudit(ctx, first.Product.ID, dto.PageRequest{})
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []string{entity.AuditActionProductFromPending, entity.AuditActionStockAdjusted}, actions)
}

func TestRegisterProduct_SalidaSinStockConservaRevision(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	cartID := f.cartWith(t, "u-1", entity.DirectionExit, scan{"X", 3})
	res, err := f.confirm.Confirm(ctx, cartID, "u-1")
	require.NoError(t, err)
	flagged, err := f.reviews.FlagUnregistered(ctx, res.MovementID, "u-1")
	require.NoError(t, err)

	// El código se dio de alta por otra vía con menos stock del que salió.
	productID := f.product(t, "X", 1, 0)

	_, err = f.reviews.RegisterProduct(ctx, flagged.Created[0].ID, f.registerRequest("X"), "u-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, productID))

	list, err := f.query.ListPendingReviews(ctx, res.MovementID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "la revisión se conserva")
	mov := f.movement(t, res.MovementID)
	assert.Equal(t, entity.LineStatusUnregistered, mov.Lines[0].Status)
}

func TestRegisterProduct_CategoriaInexistente(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 1})
	flagged, err := f.reviews.FlagUnregistered(ctx, movID, "u-1")
	require.NoError(t, err)

	req := f.registerRequest("X")
	req.CategoryID = uuid.New().String()
	_, err = f.reviews.RegisterProduct(ctx, flagged.Created[0].ID, req, "u-1")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestRegisterProduct_Validaciones(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	cases := []struct {
		name string
		mod  func(r *dto.RegisterProductRequest)
	}{
		{"nombre vacío", func(r *dto.RegisterProductRequest) { r.Name = "   " }},
		{"mínimo negativo", func(r *dto.RegisterProductRequest) { r.MinStock = -1 }},
		{"precio negativo", func(r *dto.RegisterProductRequest) { r.Price = decimal.NewFromInt(-1) }},
		{"sin categoría", func(r *dto.RegisterProductRequest) { r.CategoryID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.registerRequest("Válido")
			tc.mod(&req)
			_, err := f.reviews.RegisterProduct(ctx, uuid.New().String(), req, "u-1")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterProduct_AuditoriaLaxa(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 3})
	flagged, err := f.reviews.FlagUnregistered(ctx, movID, "u-1")
	require.NoError(t, err)
	f.store.FailAudit(true)

	res, err := f.reviews.RegisterProduct(ctx, flagged.Created[0].ID, f.registerRequest("X"), "u-1")
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, entity.MovementStatusCompleted, res.MovementStatus)
}

func TestRegisterProduct_ConcurrenteConverge(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 1}, scan{"Y", 1}, scan{"W", 1})
	flagged, err := f.reviews.FlagUnregistered(ctx, movID, "u-1")
	require.NoError(t, err)
	require.Len(t, flagged.Created, 3)

	var wg sync.WaitGroup
	for _, pr := range flagged.Created {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.reviews.RegisterProduct(ctx, id, f.registerRequest("P"), "u-1")
			assert.NoError(t, err)
		}(pr.ID)
	}
	wg.Wait()

	assert.Equal(t, entity.MovementStatusCompleted, f.movement(t, movID).Status)
}

func TestCompleteIfResolved(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movID := f.confirmedWithUnknown(t, scan{"X", 1})

	flipped, err := f.reviews.CompleteIfResolved(ctx, movID)
	require.NoError(t, err)
	assert.False(t, flipped, "la línea sigue sin registrar")

	_, err = f.reviews.CompleteIfResolved(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
}
