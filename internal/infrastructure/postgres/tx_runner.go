package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción (READ COMMITTED), ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos agrupa los repositorios sobre un mismo Querier (pool o tx).
type Repos struct {
	carts      *CartRepo
	movements  *MovementRepo
	reviews    *PendingReviewRepo
	products   *ProductRepo
	categories *CategoryRepo
	stock      *StockRepo
	audit      *AuditRepo
}

var _ repository.TxRepos = (*Repos)(nil)

// NewRepos construye todos los repositorios sobre q.
func NewRepos(q Querier) *Repos {
	return &Repos{
		carts:      NewCartRepository(q),
		movements:  NewMovementRepository(q),
		reviews:    NewPendingReviewRepository(q),
		products:   NewProductRepository(q),
		categories: NewCategoryRepository(q),
		stock:      NewStockRepository(q),
		audit:      NewAuditRepository(q),
	}
}

func (r *Repos) Carts() repository.CartRepository                   { return r.carts }
func (r *Repos) Movements() repository.MovementRepository           { return r.movements }
func (r *Repos) PendingReviews() repository.PendingReviewRepository { return r.reviews }
func (r *Repos) Products() repository.ProductRepository             { return r.products }
func (r *Repos) Categories() repository.CategoryRepository          { return r.categories }
func (r *Repos) Stock() repository.StockRepository                  { return r.stock }
func (r *Repos) Audit() repository.AuditRepository                  { return r.audit }
