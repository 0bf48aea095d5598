package inventory

import (
	"context"

	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
)

// ReconcileReport resumen de una pasada de reconciliación.
type ReconcileReport struct {
	Scanned   int
	Bound     int // líneas vinculadas a un producto registrado después
	Flagged   int // revisiones pendientes creadas
	Completed int // movimientos que pasaron a COMPLETED
	Failed    int
}

// ReconcileUseCase recorre los movimientos COMPLETED_WITH_UNREGISTERED y:
//   - vincula las líneas cuyo código ya tiene producto y aplica su cantidad al stock;
//   - crea las revisiones pendientes que falten (a nombre del creador del movimiento);
//   - aplica la transición guardada a COMPLETED si ya no quedan líneas sin registrar.
type ReconcileUseCase struct {
	movements repository.MovementRepository
	reviews   *PendingReviewUseCase
	batchSize int
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso. batchSize <= 0 usa 100.
func NewReconcileUseCase(movements repository.MovementRepository, reviews *PendingReviewUseCase, batchSize int, log *logger.Logger) *ReconcileUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{movements: movements, reviews: reviews, batchSize: batchSize, log: log}
}

// Run ejecuta una pasada completa. Los fallos por movimiento se registran y no detienen la pasada.
func (uc *ReconcileUseCase) Run(ctx context.Context) (report ReconcileReport, err error) {
	ctx, span := tracer.Start(ctx, "inventory.Reconcile")
	defer func() {
		span.SetAttributes(
			attribute.Int("reconcile.scanned", report.Scanned),
			attribute.Int("reconcile.bound", report.Bound),
			attribute.Int("reconcile.completed", report.Completed),
			attribute.Int("reconcile.failed", report.Failed),
		)
		endSpan(span, err)
	}()

	offset := 0
	for {
		batch, err := uc.movements.List(ctx, repository.MovementFilter{
			Status: entity.MovementStatusCompletedWithUnregistered,
			Limit:  uc.batchSize,
			Offset: offset,
		})
		if err != nil {
			return report, err
		}
		completed := 0
		for _, m := range batch {
			report.Scanned++
			bound, err := uc.reviews.BindKnownBarcodes(ctx, m.ID, m.CreatedBy)
			if err != nil {
				report.Failed++
				uc.log.WithTrace(ctx).Error().Err(err).Str("movement_id", m.ID).Msg("reconciliación: vincular códigos registrados")
				continue
			}
			report.Bound += bound
			flagged, err := uc.reviews.FlagUnregistered(ctx, m.ID, m.CreatedBy)
			switch {
			case err == nil:
				report.Flagged += len(flagged.Created)
			case IsNothingToFlag(err):
			default:
				report.Failed++
				uc.log.WithTrace(ctx).Error().Err(err).Str("movement_id", m.ID).Msg("reconciliación: marcar líneas sin registrar")
				continue
			}
			done, err := uc.reviews.CompleteIfResolved(ctx, m.ID)
			if err != nil {
				report.Failed++
				uc.log.WithTrace(ctx).Error().Err(err).Str("movement_id", m.ID).Msg("reconciliación: completar movimiento")
				continue
			}
			if done {
				report.Completed++
				completed++
			}
		}
		if len(batch) < uc.batchSize {
			break
		}
		// Los movimientos completados salen del filtro; solo avanzamos por los que siguen pendientes.
		offset += len(batch) - completed
	}
	return report, nil
}
