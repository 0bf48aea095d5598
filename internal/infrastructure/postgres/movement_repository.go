package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, direction, created_by, status, created_at`

// Create persiste el encabezado del movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movements (id, direction, created_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Direction, m.CreatedBy, m.Status, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// CreateLine persiste una línea. product_id va NULL en las líneas UNREGISTERED.
func (r *MovementRepo) CreateLine(ctx context.Context, l *entity.MovementLine) error {
	var productID *string
	if l.ProductID != "" {
		productID = &l.ProductID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO movement_lines (id, movement_id, barcode, quantity, status, product_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.MovementID, l.Barcode, l.Quantity, l.Status, productID, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement line: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (sin líneas).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetForUpdate obtiene el movimiento y bloquea la fila.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) getOne(ctx context.Context, query, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	var m entity.Movement
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Direction, &m.CreatedBy, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListLines lista las líneas del movimiento.
func (r *MovementRepo) ListLines(ctx context.Context, movementID string) ([]*entity.MovementLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, barcode, quantity, status, product_id, created_at
		FROM movement_lines WHERE movement_id = $1
		ORDER BY created_at, barcode`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		var productID *string
		if err := rows.Scan(&l.ID, &l.MovementID, &l.Barcode, &l.Quantity, &l.Status, &productID, &l.CreatedAt); err != nil {
			return nil, err
		}
		if productID != nil {
			l.ProductID = *productID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// RegisterLine transición condicional UNREGISTERED -> REGISTERED.
func (r *MovementRepo) RegisterLine(ctx context.Context, movementID, barcode, productID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE movement_lines SET status = 'REGISTERED', product_id = $3
		WHERE movement_id = $1 AND barcode = $2 AND status = 'UNREGISTERED'`,
		movementID, barcode, productID)
	if err != nil {
		return false, fmt.Errorf("register movement line: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountUnregistered cuenta las líneas aún sin producto.
func (r *MovementRepo) CountUnregistered(ctx context.Context, movementID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM movement_lines
		WHERE movement_id = $1 AND status = 'UNREGISTERED'`, movementID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unregistered lines: %w", err)
	}
	return n, nil
}

// MarkCompletedIfResolved transición guardada a COMPLETED en una sola sentencia.
func (r *MovementRepo) MarkCompletedIfResolved(ctx context.Context, movementID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE movements SET status = 'COMPLETED'
		WHERE id = $1 AND status = 'COMPLETED_WITH_UNREGISTERED'
		  AND NOT EXISTS (
			SELECT 1 FROM movement_lines
			WHERE movement_id = $1 AND status = 'UNREGISTERED'
		  )`, movementID)
	if err != nil {
		return false, fmt.Errorf("complete movement: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista movimientos, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.CreatedBy != "" {
		query += fmt.Sprintf(" AND created_by = $%d", pos)
		args = append(args, f.CreatedBy)
		pos++
	}
	limit, offset := clampPage(f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.Direction, &m.CreatedBy, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
