package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de auditoría sobre PostgreSQL (solo inserción).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta la entrada dentro de un savepoint: si falla, la transacción externa sigue usable.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("audit savepoint: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	payload := e.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err = sp.Exec(ctx, `
		INSERT INTO audit_entries (id, product_id, user_id, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
		e.ID, e.ProductID, e.UserID, e.Action, string(payload), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return sp.Commit(ctx)
}

// ListByProduct lista la bitácora del producto, más recientes primero.
func (r *AuditRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.AuditEntry, error) {
	if !validID(productID) {
		return nil, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, user_id, action, payload, created_at
		FROM audit_entries WHERE product_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ProductID, &e.UserID, &e.Action, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = payload
		list = append(list, &e)
	}
	return list, rows.Err()
}
