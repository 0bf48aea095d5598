package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository sobre PostgreSQL (usable con pool o tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Create persiste el carrito. El índice único por user_id hace cumplir un carrito por usuario.
func (r *CartRepo) Create(ctx context.Context, cart *entity.Cart) error {
	query := `
		INSERT INTO temp_movements (id, user_id, direction, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, cart.ID, cart.UserID, cart.Direction, cart.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrActiveCartExists
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// GetByID obtiene un carrito por ID.
func (r *CartRepo) GetByID(ctx context.Context, id string) (*entity.Cart, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, direction, created_at
		FROM temp_movements WHERE id = $1`, id)
}

// GetForUpdate obtiene el carrito y bloquea la fila (SELECT FOR UPDATE).
func (r *CartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, direction, created_at
		FROM temp_movements WHERE id = $1
		FOR UPDATE`, id)
}

// GetLatestByUser obtiene el carrito más reciente del usuario.
func (r *CartRepo) GetLatestByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	query := `
		SELECT id, user_id, direction, created_at
		FROM temp_movements WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`
	var c entity.Cart
	err := r.q.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.Direction, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest cart: %w", err)
	}
	return &c, nil
}

func (r *CartRepo) getOne(ctx context.Context, query, id string) (*entity.Cart, error) {
	if !validID(id) {
		return nil, nil
	}
	var c entity.Cart
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.UserID, &c.Direction, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// ListLines lista las líneas del carrito en orden de primer escaneo.
func (r *CartRepo) ListLines(ctx context.Context, cartID string) ([]*entity.CartLine, error) {
	query := `
		SELECT cart_id, barcode, quantity, created_at, updated_at
		FROM temp_movement_lines WHERE cart_id = $1
		ORDER BY created_at, barcode`
	rows, err := r.q.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartLine
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.CartID, &l.Barcode, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// AddLine inserta la línea o suma la cantidad en una sola sentencia (sin leer antes).
// Si la suma no cabe en INTEGER el UPDATE no aplica y no vuelve fila.
func (r *CartRepo) AddLine(ctx context.Context, cartID, barcode string, quantity int) (*entity.CartLine, error) {
	query := `
		INSERT INTO temp_movement_lines (cart_id, barcode, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (cart_id, barcode)
		DO UPDATE SET quantity = temp_movement_lines.quantity + EXCLUDED.quantity, updated_at = now()
		WHERE temp_movement_lines.quantity::bigint + EXCLUDED.quantity <= 2147483647
		RETURNING cart_id, barcode, quantity, created_at, updated_at`
	var l entity.CartLine
	err := r.q.QueryRow(ctx, query, cartID, barcode, quantity).Scan(
		&l.CartID, &l.Barcode, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuantityTooLarge
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return &l, nil
}

// SetLineQuantity reemplaza la cantidad de la línea.
func (r *CartRepo) SetLineQuantity(ctx context.Context, cartID, barcode string, quantity int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE temp_movement_lines SET quantity = $3, updated_at = now()
		WHERE cart_id = $1 AND barcode = $2`, cartID, barcode, quantity)
	if err != nil {
		return false, fmt.Errorf("update cart line: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteLine elimina la línea.
func (r *CartRepo) DeleteLine(ctx context.Context, cartID, barcode string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM temp_movement_lines WHERE cart_id = $1 AND barcode = $2`, cartID, barcode)
	if err != nil {
		return false, fmt.Errorf("delete cart line: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete elimina el carrito; las líneas se borran en cascada.
func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM temp_movements WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
