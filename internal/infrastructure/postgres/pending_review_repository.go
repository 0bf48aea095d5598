package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ repository.PendingReviewRepository = (*PendingReviewRepo)(nil)

// PendingReviewRepo implementación de PendingReviewRepository sobre PostgreSQL.
type PendingReviewRepo struct {
	q Querier
}

// NewPendingReviewRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPendingReviewRepository(q Querier) *PendingReviewRepo {
	return &PendingReviewRepo{q: q}
}

const pendingReviewColumns = `id, movement_id, barcode, quantity, created_by, created_at`

// CreateIfAbsent inserta la revisión; la restricción única (movement_id, barcode) la vuelve idempotente.
func (r *PendingReviewRepo) CreateIfAbsent(ctx context.Context, pr *entity.PendingReview) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO pending_reviews (id, movement_id, barcode, quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (movement_id, barcode) DO NOTHING`,
		pr.ID, pr.MovementID, pr.Barcode, pr.Quantity, pr.CreatedBy, pr.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert pending review: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene una revisión por ID.
func (r *PendingReviewRepo) GetByID(ctx context.Context, id string) (*entity.PendingReview, error) {
	return r.getOne(ctx, `SELECT `+pendingReviewColumns+` FROM pending_reviews WHERE id = $1`, id)
}

// GetForUpdate obtiene la revisión y bloquea la fila.
func (r *PendingReviewRepo) GetForUpdate(ctx context.Context, id string) (*entity.PendingReview, error) {
	return r.getOne(ctx, `SELECT `+pendingReviewColumns+` FROM pending_reviews WHERE id = $1 FOR UPDATE`, id)
}

func (r *PendingReviewRepo) getOne(ctx context.Context, query, id string) (*entity.PendingReview, error) {
	if !validID(id) {
		return nil, nil
	}
	var pr entity.PendingReview
	err := r.q.QueryRow(ctx, query, id).Scan(
		&pr.ID, &pr.MovementID, &pr.Barcode, &pr.Quantity, &pr.CreatedBy, &pr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending review: %w", err)
	}
	return &pr, nil
}

// Delete elimina la revisión.
func (r *PendingReviewRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pending review: %w", err)
	}
	return nil
}

// List lista revisiones, más antiguas primero.
func (r *PendingReviewRepo) List(ctx context.Context, f repository.PendingReviewFilter) ([]*entity.PendingReview, error) {
	query := `SELECT ` + pendingReviewColumns + ` FROM pending_reviews WHERE 1=1`
	var args []any
	pos := 1
	if f.MovementID != "" {
		if !validID(f.MovementID) {
			return nil, nil
		}
		query += fmt.Sprintf(" AND movement_id = $%d", pos)
		args = append(args, f.MovementID)
		pos++
	}
	limit, offset := clampPage(f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()
	var list []*entity.PendingReview
	for rows.Next() {
		var pr entity.PendingReview
		if err := rows.Scan(&pr.ID, &pr.MovementID, &pr.Barcode, &pr.Quantity, &pr.CreatedBy, &pr.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &pr)
	}
	return list, rows.Err()
}
