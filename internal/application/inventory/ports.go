package inventory

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.TxRepos) error) error
}

// MovementPDFGenerator genera el comprobante PDF de un movimiento.
type MovementPDFGenerator interface {
	GenerateMovementPDF(ctx context.Context, movement *entity.Movement) ([]byte, error)
}
