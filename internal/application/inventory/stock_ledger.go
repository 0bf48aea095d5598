package inventory

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StockLedger es el único camino autorizado para mutar el contador de stock de un producto.
// La verificación de piso en cero vive en el predicado del UPDATE (StockRepository.Adjust),
// nunca en una lectura previa.
type StockLedger struct {
	txRunner TxRunner
}

// NewStockLedger construye el ledger.
func NewStockLedger(txRunner TxRunner) *StockLedger {
	return &StockLedger{txRunner: txRunner}
}

// SignedDelta traduce dirección y cantidad a un ajuste con signo: +q para ENTRY, -q para EXIT.
func SignedDelta(direction string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.Invalid("la cantidad debe ser un entero positivo")
	}
	switch direction {
	case entity.DirectionEntry:
		return quantity, nil
	case entity.DirectionExit:
		return -quantity, nil
	default:
		return 0, domain.Invalid("dirección inválida: " + direction)
	}
}

// Adjust aplica el ajuste en su propia transacción.
func (l *StockLedger) Adjust(ctx context.Context, productID string, delta int) (entity.StockChange, error) {
	var change entity.StockChange
	err := l.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		change, err = l.AdjustInTx(ctx, r.Stock(), productID, delta)
		return err
	})
	return change, err
}

// AdjustInTx aplica el ajuste con el repositorio de la transacción del caller.
// Si el stock resultante fuera negativo devuelve domain.ErrInsufficientStock y no cambia nada.
func (l *StockLedger) AdjustInTx(ctx context.Context, stock repository.StockRepository, productID string, delta int) (change entity.StockChange, err error) {
	ctx, span := tracer.Start(ctx, "inventory.StockLedger.Adjust", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.delta", delta),
	))
	defer func() { endSpan(span, err) }()

	if productID == "" {
		return entity.StockChange{}, domain.Invalid("product_id requerido")
	}
	if delta == 0 {
		return entity.StockChange{}, domain.Invalid("el ajuste no puede ser cero")
	}
	change, err = stock.Adjust(ctx, productID, delta)
	if err != nil {
		return entity.StockChange{}, err
	}
	span.SetAttributes(attribute.Int("stock.current", change.Current))
	return change, nil
}
