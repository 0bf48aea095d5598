package repository

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

// AuditRepository bitácora de auditoría, solo inserción.
type AuditRepository interface {
	// Append inserta la entrada. Dentro de una transacción se aísla en un savepoint,
	// de modo que un fallo no invalida la transacción que la contiene.
	Append(ctx context.Context, entry *entity.AuditEntry) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.AuditEntry, error)
}
