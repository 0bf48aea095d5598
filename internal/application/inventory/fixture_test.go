package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: casos de uso cableados sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memory.Store
	repos      repository.TxRepos
	categoryID string
	ledger     *inventory.StockLedger
	carts      *inventory.CartUseCase
	confirm    *inventory.ConfirmMovementUseCase
	reviews    *inventory.PendingReviewUseCase
	query      *inventory.QueryUseCase
}

func newFixture(t *testing.T, strictAudit bool) *fixture {
	t.Helper()
	store := memory.New()
	categoryID := uuid.New().String()
	store.AddCategory(&entity.Category{ID: categoryID, Name: "General", CreatedAt: time.Now()})

	audit := inventory.NewAuditLog(strictAudit, nil)
	ledger := inventory.NewStockLedger(store)
	repos := store.Repos()
	reviews := inventory.NewPendingReviewUseCase(store, ledger, audit, nil)
	return &fixture{
		store:      store,
		repos:      repos,
		categoryID: categoryID,
		ledger:     ledger,
		carts:      inventory.NewCartUseCase(repos.Carts()),
		confirm:    inventory.NewConfirmMovementUseCase(store, ledger, audit, nil),
		reviews:    reviews,
		query:      inventory.NewQueryUseCase(repos.Movements(), repos.PendingReviews(), repos.Audit(), nil),
	}
}

// product registra un producto con stock y mínimo dados y devuelve su ID.
func (f *fixture) product(t *testing.T, barcode string, stock, minStock int) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:         uuid.New().String(),
		CategoryID: f.categoryID,
		Barcode:    barcode,
		Name:       "Producto " + barcode,
		Price:      decimal.NewFromInt(1000),
		Stock:      stock,
		MinStock:   minStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.repos.Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	s, err := f.repos.Products().GetStock(context.Background(), productID)
	require.NoError(t, err)
	return s
}

// cartWith abre un carrito para user y escanea los pares (barcode, qty) en orden.
func (f *fixture) cartWith(t *testing.T, user, direction string, scans ...scan) string {
	t.Helper()
	ctx := context.Background()
	cart, err := f.carts.OpenCart(ctx, user, direction)
	require.NoError(t, err)
	for _, s := range scans {
		_, err := f.carts.ScanItem(ctx, user, cart.ID, s.barcode, s.qty)
		require.NoError(t, err)
	}
	return cart.ID
}

type scan struct {
	barcode string
	qty     int
}

func (f *fixture) movement(t *testing.T, id string) *dto.MovementResponse {
	t.Helper()
	m, err := f.query.GetMovement(context.Background(), id)
	require.NoError(t, err)
	return m
}

func (f *fixture) registerRequest(name string) dto.RegisterProductRequest {
	return dto.RegisterProductRequest{
		Name:       name,
		CategoryID: f.categoryID,
		MinStock:   1,
		Price:      decimal.NewFromInt(2500),
	}
}
