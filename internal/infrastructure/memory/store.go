// Package memory implementa todos los repositorios y el TxRunner en memoria.
// Un único mutex serializa las transacciones; si fn falla se restaura la instantánea
// tomada al inicio, de modo que ningún efecto parcial queda visible.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// ErrAuditUnavailable es el error que devuelve la bitácora cuando se simula su caída.
var ErrAuditUnavailable = errors.New("memory: bitácora no disponible")

type data struct {
	carts         map[string]*entity.Cart
	cartLines     map[string][]*entity.CartLine // por carrito, en orden de primer escaneo
	movements     []*entity.Movement            // en orden de creación
	movementLines map[string][]*entity.MovementLine
	reviews       []*entity.PendingReview
	products      map[string]*entity.Product
	categories    map[string]*entity.Category
	audit         []*entity.AuditEntry
}

// Store almacén en memoria.
type Store struct {
	mu        sync.Mutex
	d         data
	failAudit bool
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{d: data{
		carts:         map[string]*entity.Cart{},
		cartLines:     map[string][]*entity.CartLine{},
		movementLines: map[string][]*entity.MovementLine{},
		products:      map[string]*entity.Product{},
		categories:    map[string]*entity.Category{},
	}}
}

// FailAudit simula (o deja de simular) un fallo al escribir la bitácora.
func (s *Store) FailAudit(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAudit = fail
}

// AddCategory registra una categoría (el catálogo de categorías no tiene alta propia).
func (s *Store) AddCategory(c *entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.d.categories[c.ID] = &cp
}

// Repos devuelve repositorios fuera de transacción: cada llamada toma el lock por separado.
func (s *Store) Repos() repository.TxRepos {
	return &repos{s: s}
}

// Run ejecuta fn con el almacén bloqueado. Si fn devuelve error se descartan sus cambios.
func (s *Store) Run(ctx context.Context, fn func(r repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(&repos{s: s, inTx: true}); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// with ejecuta fn sobre los datos; fuera de transacción toma el lock.
func (r *repos) with(fn func(d *data) error) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	return fn(&r.s.d)
}

type repos struct {
	s    *Store
	inTx bool
}

func (r *repos) Carts() repository.CartRepository                   { return (*cartRepo)(r) }
func (r *repos) Movements() repository.MovementRepository           { return (*movementRepo)(r) }
func (r *repos) PendingReviews() repository.PendingReviewRepository { return (*reviewRepo)(r) }
func (r *repos) Products() repository.ProductRepository             { return (*productRepo)(r) }
func (r *repos) Categories() repository.CategoryRepository          { return (*categoryRepo)(r) }
func (r *repos) Stock() repository.StockRepository                  { return (*stockRepo)(r) }
func (r *repos) Audit() repository.AuditRepository                  { return (*auditRepo)(r) }

func (d data) clone() data {
	out := data{
		carts:         make(map[string]*entity.Cart, len(d.carts)),
		cartLines:     make(map[string][]*entity.CartLine, len(d.cartLines)),
		movements:     make([]*entity.Movement, 0, len(d.movements)),
		movementLines: make(map[string][]*entity.MovementLine, len(d.movementLines)),
		reviews:       make([]*entity.PendingReview, 0, len(d.reviews)),
		products:      make(map[string]*entity.Product, len(d.products)),
		categories:    make(map[string]*entity.Category, len(d.categories)),
		audit:         make([]*entity.AuditEntry, 0, len(d.audit)),
	}
	for k, v := range d.carts {
		cp := *v
		out.carts[k] = &cp
	}
	for k, lines := range d.cartLines {
		cl := make([]*entity.CartLine, 0, len(lines))
		for _, l := range lines {
			cp := *l
			cl = append(cl, &cp)
		}
		out.cartLines[k] = cl
	}
	for _, m := range d.movements {
		cp := *m
		out.movements = append(out.movements, &cp)
	}
	for k, lines := range d.movementLines {
		ml := make([]*entity.MovementLine, 0, len(lines))
		for _, l := range lines {
			cp := *l
			ml = append(ml, &cp)
		}
		out.movementLines[k] = ml
	}
	for _, pr := range d.reviews {
		cp := *pr
		out.reviews = append(out.reviews, &cp)
	}
	for k, v := range d.products {
		cp := *v
		out.products[k] = &cp
	}
	for k, v := range d.categories {
		cp := *v
		out.categories[k] = &cp
	}
	out.audit = append(out.audit, d.audit...)
	return out
}

func page(n, limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
