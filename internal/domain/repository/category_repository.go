package repository

import "context"

// CategoryRepository solo expone la verificación de existencia.
type CategoryRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}
