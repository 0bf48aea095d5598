package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ConfirmMovementUseCase convierte un carrito en un movimiento permanente.
// Todo ocurre en una única transacción: si un ajuste de stock falla a mitad del recorrido
// no queda movimiento, línea ni ajuste visible, y el carrito se conserva.
type ConfirmMovementUseCase struct {
	txRunner TxRunner
	ledger   *StockLedger
	audit    *AuditLog
	log      *logger.Logger
}

// NewConfirmMovementUseCase construye el caso de uso.
func NewConfirmMovementUseCase(txRunner TxRunner, ledger *StockLedger, audit *AuditLog, log *logger.Logger) *ConfirmMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfirmMovementUseCase{txRunner: txRunner, ledger: ledger, audit: audit, log: log}
}

type resolvedLine struct {
	line    *entity.CartLine
	product *entity.Product
}

// Confirm confirma el carrito cartID en nombre de userID.
//  1. Bloquea el carrito (SELECT FOR UPDATE) y lee sus líneas.
//  2. Separa las líneas con producto (por código de barras) de las desconocidas.
//  3. Crea el movimiento con estado COMPLETED o COMPLETED_WITH_UNREGISTERED.
//  4. Líneas registradas: línea REGISTERED + ajuste de stock + auditoría.
//  5. Líneas desconocidas: línea UNREGISTERED (la revisión pendiente se crea aparte).
//  6. Elimina el carrito.
func (uc *ConfirmMovementUseCase) Confirm(ctx context.Context, cartID, userID string) (out *dto.ConfirmMovementResponse, err error) {
	ctx, span := tracer.Start(ctx, "inventory.ConfirmMovement", trace.WithAttributes(
		attribute.String("cart.id", cartID),
		attribute.String("user.id", userID),
	))
	defer func() { endSpan(span, err) }()

	if cartID == "" || userID == "" {
		return nil, domain.Invalid("carrito y usuario requeridos")
	}

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		cart, err := r.Carts().GetForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart == nil || cart.UserID != userID {
			return domain.ErrCartNotFound
		}
		lines, err := r.Carts().ListLines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		registered := make([]resolvedLine, 0, len(lines))
		unregistered := make([]*entity.CartLine, 0)
		for _, l := range lines {
			p, err := r.Products().FindByBarcode(ctx, l.Barcode)
			if err != nil {
				return err
			}
			if p == nil {
				unregistered = append(unregistered, l)
				continue
			}
			registered = append(registered, resolvedLine{line: l, product: p})
		}

		now := time.Now()
		status := entity.MovementStatusCompleted
		if len(unregistered) > 0 {
			status = entity.MovementStatusCompletedWithUnregistered
		}
		mov := &entity.Movement{
			ID:        uuid.New().String(),
			Direction: cart.Direction,
			CreatedBy: userID,
			Status:    status,
			CreatedAt: now,
		}
		if err := r.Movements().Create(ctx, mov); err != nil {
			return err
		}

		res := &dto.ConfirmMovementResponse{
			MovementID:   mov.ID,
			Status:       status,
			Unregistered: make([]dto.BarcodeQuantity, 0, len(unregistered)),
		}

		for _, rl := range registered {
			if err := r.Movements().CreateLine(ctx, &entity.MovementLine{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				Barcode:    rl.line.Barcode,
				Quantity:   rl.line.Quantity,
				Status:     entity.LineStatusRegistered,
				ProductID:  rl.product.ID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			delta, err := SignedDelta(cart.Direction, rl.line.Quantity)
			if err != nil {
				return err
			}
			change, err := uc.ledger.AdjustInTx(ctx, r.Stock(), rl.product.ID, delta)
			if err != nil {
				return err
			}
			warning, err := uc.audit.Append(ctx, r.Audit(), rl.product.ID, userID, entity.AuditActionStockAdjusted, map[string]any{
				"movement_id": mov.ID,
				"barcode":     rl.line.Barcode,
				"direction":   cart.Direction,
				"quantity":    rl.line.Quantity,
				"old_stock":   change.Previous,
				"new_stock":   change.Current,
			})
			if err != nil {
				return err
			}
			if warning != "" {
				res.Warnings = append(res.Warnings, warning)
			}
			if change.BelowMinimum() {
				res.LowStock = append(res.LowStock, dto.LowStockAlert{
					ProductID: rl.product.ID,
					Barcode:   rl.line.Barcode,
					Stock:     change.Current,
					MinStock:  change.MinStock,
				})
			}
		}

		for _, l := range unregistered {
			if err := r.Movements().CreateLine(ctx, &entity.MovementLine{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				Barcode:    l.Barcode,
				Quantity:   l.Quantity,
				Status:     entity.LineStatusUnregistered,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			res.Unregistered = append(res.Unregistered, dto.BarcodeQuantity{Barcode: l.Barcode, Quantity: l.Quantity})
		}

		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("movement.id", out.MovementID),
		attribute.String("movement.status", out.Status),
	)
	log := uc.log.WithTrace(ctx)
	log.Info().
		Str("movement_id", out.MovementID).
		Str("status", out.Status).
		Str("user_id", userID).
		Int("unregistered", len(out.Unregistered)).
		Msg("movimiento confirmado")
	for _, a := range out.LowStock {
		log.Warn().
			Str("product_id", a.ProductID).
			Int("stock", a.Stock).
			Int("min_stock", a.MinStock).
			Msg("producto bajo stock mínimo")
	}
	return out, nil
}
