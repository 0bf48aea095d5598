package memory

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

type (
	cartRepo     repos
	movementRepo repos
	reviewRepo   repos
	productRepo  repos
	categoryRepo repos
	stockRepo    repos
	auditRepo    repos
)

var (
	_ repository.CartRepository          = (*cartRepo)(nil)
	_ repository.MovementRepository      = (*movementRepo)(nil)
	_ repository.PendingReviewRepository = (*reviewRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.CategoryRepository      = (*categoryRepo)(nil)
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.AuditRepository         = (*auditRepo)(nil)
)

// ─── Carritos ────────────────────────────────────────────────────────────────

func (r *cartRepo) Create(ctx context.Context, c *entity.Cart) error {
	return (*repos)(r).with(func(d *data) error {
		for _, existing := range d.carts {
			if existing.UserID == c.UserID {
				return domain.ErrActiveCartExists
			}
		}
		cp := *c
		cp.Lines = nil
		d.carts[c.ID] = &cp
		return nil
	})
}

func (r *cartRepo) GetByID(ctx context.Context, id string) (*entity.Cart, error) {
	var out *entity.Cart
	err := (*repos)(r).with(func(d *data) error {
		if c, ok := d.carts[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	return r.GetByID(ctx, id)
}

func (r *cartRepo) GetLatestByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	var out *entity.Cart
	err := (*repos)(r).with(func(d *data) error {
		for _, c := range d.carts {
			if c.UserID != userID {
				continue
			}
			if out == nil || c.CreatedAt.After(out.CreatedAt) ||
				(c.CreatedAt.Equal(out.CreatedAt) && c.ID > out.ID) {
				cp := *c
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) ListLines(ctx context.Context, cartID string) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	err := (*repos)(r).with(func(d *data) error {
		for _, l := range d.cartLines[cartID] {
			cp := *l
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) AddLine(ctx context.Context, cartID, barcode string, quantity int) (*entity.CartLine, error) {
	var out *entity.CartLine
	err := (*repos)(r).with(func(d *data) error {
		if _, ok := d.carts[cartID]; !ok {
			return domain.ErrCartNotFound
		}
		now := time.Now()
		for _, l := range d.cartLines[cartID] {
			if l.Barcode == barcode {
				if quantity > math.MaxInt32-l.Quantity {
					return domain.ErrQuantityTooLarge
				}
				l.Quantity += quantity
				l.UpdatedAt = now
				cp := *l
				out = &cp
				return nil
			}
		}
		l := &entity.CartLine{CartID: cartID, Barcode: barcode, Quantity: quantity, CreatedAt: now, UpdatedAt: now}
		d.cartLines[cartID] = append(d.cartLines[cartID], l)
		cp := *l
		out = &cp
		return nil
	})
	return out, err
}

func (r *cartRepo) SetLineQuantity(ctx context.Context, cartID, barcode string, quantity int) (bool, error) {
	found := false
	err := (*repos)(r).with(func(d *data) error {
		for _, l := range d.cartLines[cartID] {
			if l.Barcode == barcode {
				l.Quantity = quantity
				l.UpdatedAt = time.Now()
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r *cartRepo) DeleteLine(ctx context.Context, cartID, barcode string) (bool, error) {
	found := false
	err := (*repos)(r).with(func(d *data) error {
		lines := d.cartLines[cartID]
		for i, l := range lines {
			if l.Barcode == barcode {
				d.cartLines[cartID] = append(lines[:i:i], lines[i+1:]...)
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *cartRepo) Delete(ctx context.Context, cartID string) error {
	return (*repos)(r).with(func(d *data) error {
		delete(d.carts, cartID)
		delete(d.cartLines, cartID)
		return nil
	})
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

func (r *movementRepo) Create(ctx context.Context, m *entity.Movement) error {
	return (*repos)(r).with(func(d *data) error {
		cp := *m
		cp.Lines = nil
		d.movements = append(d.movements, &cp)
		return nil
	})
}

func (r *movementRepo) CreateLine(ctx context.Context, l *entity.MovementLine) error {
	return (*repos)(r).with(func(d *data) error {
		if findMovement(d, l.MovementID) == nil {
			return domain.ErrMovementNotFound
		}
		for _, existing := range d.movementLines[l.MovementID] {
			if existing.Barcode == l.Barcode {
				return domain.ErrDuplicate
			}
		}
		cp := *l
		d.movementLines[l.MovementID] = append(d.movementLines[l.MovementID], &cp)
		return nil
	})
}

func findMovement(d *data, id string) *entity.Movement {
	for _, m := range d.movements {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *movementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := (*repos)(r).with(func(d *data) error {
		if m := findMovement(d, id); m != nil {
			cp := *m
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *movementRepo) ListLines(ctx context.Context, movementID string) ([]*entity.MovementLine, error) {
	var out []*entity.MovementLine
	err := (*repos)(r).with(func(d *data) error {
		for _, l := range d.movementLines[movementID] {
			cp := *l
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) RegisterLine(ctx context.Context, movementID, barcode, productID string) (bool, error) {
	updated := false
	err := (*repos)(r).with(func(d *data) error {
		for _, l := range d.movementLines[movementID] {
			if l.Barcode == barcode && l.Status == entity.LineStatusUnregistered {
				l.Status = entity.LineStatusRegistered
				l.ProductID = productID
				updated = true
			}
		}
		return nil
	})
	return updated, err
}

func (r *movementRepo) CountUnregistered(ctx context.Context, movementID string) (int, error) {
	n := 0
	err := (*repos)(r).with(func(d *data) error {
		n = countUnregistered(d, movementID)
		return nil
	})
	return n, err
}

func countUnregistered(d *data, movementID string) int {
	n := 0
	for _, l := range d.movementLines[movementID] {
		if l.Status == entity.LineStatusUnregistered {
			n++
		}
	}
	return n
}

func (r *movementRepo) MarkCompletedIfResolved(ctx context.Context, movementID string) (bool, error) {
	flipped := false
	err := (*repos)(r).with(func(d *data) error {
		m := findMovement(d, movementID)
		if m == nil || m.Status != entity.MovementStatusCompletedWithUnregistered {
			return nil
		}
		if countUnregistered(d, movementID) > 0 {
			return nil
		}
		m.Status = entity.MovementStatusCompleted
		flipped = true
		return nil
	})
	return flipped, err
}

func (r *movementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := (*repos)(r).with(func(d *data) error {
		var matched []*entity.Movement
		// más recientes primero
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if f.Status != "" && m.Status != f.Status {
				continue
			}
			if f.CreatedBy != "" && m.CreatedBy != f.CreatedBy {
				continue
			}
			matched = append(matched, m)
		}
		from, to := page(len(matched), f.Limit, f.Offset)
		for _, m := range matched[from:to] {
			cp := *m
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// ─── Revisiones pendientes ───────────────────────────────────────────────────

func (r *reviewRepo) CreateIfAbsent(ctx context.Context, pr *entity.PendingReview) (bool, error) {
	created := false
	err := (*repos)(r).with(func(d *data) error {
		for _, existing := range d.reviews {
			if existing.MovementID == pr.MovementID && existing.Barcode == pr.Barcode {
				return nil
			}
		}
		cp := *pr
		d.reviews = append(d.reviews, &cp)
		created = true
		return nil
	})
	return created, err
}

func (r *reviewRepo) GetByID(ctx context.Context, id string) (*entity.PendingReview, error) {
	var out *entity.PendingReview
	err := (*repos)(r).with(func(d *data) error {
		for _, pr := range d.reviews {
			if pr.ID == id {
				cp := *pr
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *reviewRepo) GetForUpdate(ctx context.Context, id string) (*entity.PendingReview, error) {
	return r.GetByID(ctx, id)
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	return (*repos)(r).with(func(d *data) error {
		for i, pr := range d.reviews {
			if pr.ID == id {
				d.reviews = append(d.reviews[:i:i], d.reviews[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

func (r *reviewRepo) List(ctx context.Context, f repository.PendingReviewFilter) ([]*entity.PendingReview, error) {
	var out []*entity.PendingReview
	err := (*repos)(r).with(func(d *data) error {
		var matched []*entity.PendingReview
		for _, pr := range d.reviews {
			if f.MovementID != "" && pr.MovementID != f.MovementID {
				continue
			}
			matched = append(matched, pr)
		}
		from, to := page(len(matched), f.Limit, f.Offset)
		for _, pr := range matched[from:to] {
			cp := *pr
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// ─── Productos y categorías ──────────────────────────────────────────────────

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return (*repos)(r).with(func(d *data) error {
		if p.Stock < 0 {
			return domain.Invalid("stock negativo")
		}
		if _, ok := d.categories[p.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
		for _, existing := range d.products {
			if existing.Barcode == p.Barcode || existing.ID == p.ID {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		d.products[p.ID] = &cp
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := (*repos)(r).with(func(d *data) error {
		if p, ok := d.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := (*repos)(r).with(func(d *data) error {
		for _, p := range d.products {
			if p.Barcode == barcode {
				cp := *p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetStock(ctx context.Context, productID string) (int, error) {
	stock := 0
	err := (*repos)(r).with(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return domain.ErrProductNotFound
		}
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *categoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	ok := false
	err := (*repos)(r).with(func(d *data) error {
		_, ok = d.categories[id]
		return nil
	})
	return ok, err
}

// ─── Stock ───────────────────────────────────────────────────────────────────

func (r *stockRepo) Adjust(ctx context.Context, productID string, delta int) (entity.StockChange, error) {
	var change entity.StockChange
	err := (*repos)(r).with(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		change = entity.StockChange{
			ProductID: productID,
			Delta:     delta,
			Previous:  p.Stock,
			Current:   p.Stock + delta,
			MinStock:  p.MinStock,
		}
		p.Stock = change.Current
		p.UpdatedAt = time.Now()
		return nil
	})
	return change, err
}

// ─── Auditoría ───────────────────────────────────────────────────────────────

func (r *auditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	return (*repos)(r).with(func(d *data) error {
		if r.s.failAudit {
			return ErrAuditUnavailable
		}
		cp := *e
		d.audit = append(d.audit, &cp)
		return nil
	})
}

func (r *auditRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	err := (*repos)(r).with(func(d *data) error {
		var matched []*entity.AuditEntry
		for i := len(d.audit) - 1; i >= 0; i-- {
			if d.audit[i].ProductID == productID {
				matched = append(matched, d.audit[i])
			}
		}
		// más recientes primero; a igual instante, el último insertado primero
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		from, to := page(len(matched), limit, offset)
		for _, e := range matched[from:to] {
			cp := *e
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}
