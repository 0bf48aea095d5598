package postgres

import (
	"context"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pruebas contra una base real. Se omiten salvo que TEST_DATABASE_URL esté definido.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile("../../../migrations/0001_init.sql")
	require.NoError(t, err)
	require.NoError(t, ApplySchema(ctx, pool, string(ddl)))
	_, err = pool.Exec(ctx, `TRUNCATE audit_entries, pending_reviews, movement_lines, movements,
		temp_movement_lines, temp_movements, products, categories CASCADE`)
	require.NoError(t, err)
	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, barcode string, stock int) (categoryID, productID string) {
	t.Helper()
	ctx := context.Background()
	categoryID = uuid.New().String()
	_, err := pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, 'General')`, categoryID)
	require.NoError(t, err)
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), CategoryID: categoryID, Barcode: barcode, Name: "Producto " + barcode,
		Price: decimal.NewFromInt(1000), Stock: stock, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewProductRepository(pool).Create(ctx, p))
	return categoryID, p.ID
}

func TestStockRepo_SalidasConcurrentesNoDejanNegativo(t *testing.T) {
	pool := setupDB(t)
	_, productID := seedProduct(t, pool, "7701", 1)
	ledger := inventory.NewStockLedger(NewTxRunner(pool))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Adjust(context.Background(), productID, -1)
		}(i)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	stock, err := NewProductRepository(pool).GetStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestStockRepo_ProductoInexistente(t *testing.T) {
	pool := setupDB(t)
	_, err := NewStockRepository(pool).Adjust(context.Background(), uuid.New().String(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFlujoCompleto_ConfirmarYRegistrar(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	categoryID, productID := seedProduct(t, pool, "7702", 10)

	runner := NewTxRunner(pool)
	repos := NewRepos(pool)
	audit := inventory.NewAuditLog(true, nil)
	carts := inventory.NewCartUseCase(repos.Carts())
	ledger := inventory.NewStockLedger(runner)
	confirm := inventory.NewConfirmMovementUseCase(runner, ledger, audit, nil)
	reviews := inventory.NewPendingReviewUseCase(runner, ledger, audit, nil)

	cart, err := carts.OpenCart(ctx, "u-1", entity.DirectionEntry)
	require.NoError(t, err)
	_, err = carts.ScanItem(ctx, "u-1", cart.ID, "7702", 2)
	require.NoError(t, err)
	_, err = carts.ScanItem(ctx, "u-1", cart.ID, "7702", 1)
	require.NoError(t, err)
	_, err = carts.ScanItem(ctx, "u-1", cart.ID, "NUEVO-1", 4)
	require.NoError(t, err)

	res, err := confirm.Confirm(ctx, cart.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompletedWithUnregistered, res.Status)

	stock, err := repos.Products().GetStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 13, stock)

	flagged, err := reviews.FlagUnregistered(ctx, res.MovementID, "u-1")
	require.NoError(t, err)
	require.Len(t, flagged.Created, 1)

	_, err = reviews.FlagUnregistered(ctx, res.MovementID, "u-1")
	assert.ErrorIs(t, err, domain.ErrNothingToFlag)

	reg, err := reviews.RegisterProduct(ctx, flagged.Created[0].ID, dto.RegisterProductRequest{
		Name: "Nuevo", CategoryID: categoryID, Price: decimal.NewFromInt(500),
	}, "u-2")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompleted, reg.MovementStatus)
	assert.Equal(t, 4, reg.Product.Stock)

	entries, err := repos.Audit().ListByProduct(ctx, productID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionStockAdjusted, entries[0].Action)
}

func TestCartRepo_SumaFueraDeRango(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	carts := NewCartRepository(pool)
	cart := &entity.Cart{ID: uuid.New().String(), UserID: "u-1", Direction: entity.DirectionEntry, CreatedAt: time.Now()}
	require.NoError(t, carts.Create(ctx, cart))

	_, err := carts.AddLine(ctx, cart.ID, "A", math.MaxInt32)
	require.NoError(t, err)
	_, err = carts.AddLine(ctx, cart.ID, "A", 1)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)

	lines, err := carts.ListLines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, math.MaxInt32, lines[0].Quantity)

	latest, err := carts.GetLatestByUser(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, cart.ID, latest.ID)
}

func TestFlujoCompleto_MismoCodigoEnDosMovimientos(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	categoryID, _ := seedProduct(t, pool, "7703", 0)

	runner := NewTxRunner(pool)
	repos := NewRepos(pool)
	audit := inventory.NewAuditLog(true, nil)
	ledger := inventory.NewStockLedger(runner)
	carts := inventory.NewCartUseCase(repos.Carts())
	confirm := inventory.NewConfirmMovementUseCase(runner, ledger, audit, nil)
	reviews := inventory.NewPendingReviewUseCase(runner, ledger, audit, nil)

	var reviewIDs []string
	for _, qty := range []int{2, 5} {
		cart, err := carts.OpenCart(ctx, "u-1", entity.DirectionEntry)
		require.NoError(t, err)
		_, err = carts.ScanItem(ctx, "u-1", cart.ID, "NEW", qty)
		require.NoError(t, err)
		res, err := confirm.Confirm(ctx, cart.ID, "u-1")
		require.NoError(t, err)
		flagged, err := reviews.FlagUnregistered(ctx, res.MovementID, "u-1")
		require.NoError(t, err)
		reviewIDs = append(reviewIDs, flagged.Created[0].ID)
	}

	req := dto.RegisterProductRequest{Name: "Nuevo", CategoryID: categoryID, Price: decimal.NewFromInt(500)}
	first, err := reviews.RegisterProduct(ctx, reviewIDs[0], req, "u-2")
	require.NoError(t, err)
	second, err := reviews.RegisterProduct(ctx, reviewIDs[1], req, "u-2")
	require.NoError(t, err)
	assert.True(t, second.LinkedExisting)
	assert.Equal(t, entity.MovementStatusCompleted, second.MovementStatus)

	stock, err := repos.Products().GetStock(ctx, first.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
}
