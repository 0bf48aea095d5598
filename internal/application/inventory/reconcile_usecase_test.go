package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

func TestReconcile_MarcaYCompleta(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	// m1: línea desconocida sin revisión.
	pendingID := f.confirmedWithUnknown(t, scan{"X", 2})

	// m2: quedó COMPLETED_WITH_UNREGISTERED aunque todas sus líneas ya están registradas.
	productID := f.product(t, "A", 0, 0)
	stale := &entity.Movement{
		ID:        uuid.New().String(),
		Direction: entity.DirectionEntry,
		CreatedBy: "u-2",
		Status:    entity.MovementStatusCompletedWithUnregistered,
		CreatedAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, f.repos.Movements().Create(ctx, stale))
	require.NoError(t, f.repos.Movements().CreateLine(ctx, &entity.MovementLine{
		ID:         uuid.New().String(),
		MovementID: stale.ID,
		Barcode:    "A",
		Quantity:   1,
		Status:     entity.LineStatusRegistered,
		ProductID:  productID,
		CreatedAt:  stale.CreatedAt,
	}))

	uc := inventory.NewReconcileUseCase(f.repos.Movements(), f.reviews, 1, nil)
	report, err := uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileReport{Scanned: 2, Flagged: 1, Completed: 1}, report)

	assert.Equal(t, entity.MovementStatusCompleted, f.movement(t, stale.ID).Status)
	assert.Equal(t, entity.MovementStatusCompletedWithUnregistered, f.movement(t, pendingID).Status)

	reviews, err := f.query.ListPendingReviews(ctx, pendingID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, reviews.Items, 1)
	assert.Equal(t, "u-1", reviews.Items[0].CreatedBy, "a nombre del creador del movimiento")

	// Segunda pasada: nada nuevo.
	report, err = uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileReport{Scanned: 1}, report)
}

func TestReconcile_VinculaCodigosYaRegistrados(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	movA := f.confirmedWithUnknown(t, scan{"NEW", 2})
	movB := f.confirmedWithUnknown(t, scan{"NEW", 5})
	movC := f.confirmedWithUnknown(t, scan{"NEW", 1})
	flagA, err := f.reviews.FlagUnregistered(ctx, movA, "u-1")
	require.NoError(t, err)
	_, err = f.reviews.FlagUnregistered(ctx, movB, "u-1")
	require.NoError(t, err)

	reg, err := f.reviews.RegisterProduct(ctx, flagA.Created[0].ID, f.registerRequest("Nuevo"), "u-admin")
	require.NoError(t, err)

	uc := inventory.NewReconcileUseCase(f.repos.Movements(), f.reviews, 1, nil)
	report, err := uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileReport{Scanned: 2, Bound: 2, Completed: 2}, report)

	assert.Equal(t, 8, f.stock(t, reg.Product.ID))
	for _, id := range []string{movB, movC} {
		assert.Equal(t, entity.MovementStatusCompleted, f.movement(t, id).Status)
		reviews, err := f.query.ListPendingReviews(ctx, id, dto.PageRequest{})
		require.NoError(t, err)
		assert.Empty(t, reviews.Items)
	}

	report, err = uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileReport{}, report)
}
