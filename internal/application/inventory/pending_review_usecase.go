package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PendingReviewUseCase resuelve las líneas sin registrar de un movimiento hasta que
// el movimiento converge a COMPLETED.
//
// Orden de bloqueo en todas las operaciones: movimiento -> revisión pendiente.
// Bloquear el movimiento serializa a los operadores que resuelven revisiones del mismo
// movimiento, así el último en confirmar siempre ve las líneas de los demás ya registradas.
type PendingReviewUseCase struct {
	txRunner TxRunner
	ledger   *StockLedger
	audit    *AuditLog
	log      *logger.Logger
}

// NewPendingReviewUseCase construye el caso de uso.
func NewPendingReviewUseCase(txRunner TxRunner, ledger *StockLedger, audit *AuditLog, log *logger.Logger) *PendingReviewUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PendingReviewUseCase{txRunner: txRunner, ledger: ledger, audit: audit, log: log}
}

// FlagUnregistered crea una revisión pendiente por cada línea UNREGISTERED del movimiento
// que aún no tenga una. Idempotente; domain.ErrNothingToFlag si no creó ninguna.
func (uc *PendingReviewUseCase) FlagUnregistered(ctx context.Context, movementID, userID string) (out *dto.FlagUnregisteredResponse, err error) {
	ctx, span := tracer.Start(ctx, "inventory.FlagUnregistered", trace.WithAttributes(
		attribute.String("movement.id", movementID),
	))
	defer func() { endSpan(span, err) }()

	if movementID == "" || userID == "" {
		return nil, domain.Invalid("movimiento y usuario requeridos")
	}

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		mov, err := r.Movements().GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrMovementNotFound
		}
		lines, err := r.Movements().ListLines(ctx, mov.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		res := &dto.FlagUnregisteredResponse{MovementID: mov.ID, Created: []dto.PendingReviewResponse{}}
		for _, l := range lines {
			if l.Status != entity.LineStatusUnregistered {
				continue
			}
			pr := &entity.PendingReview{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				Barcode:    l.Barcode,
				Quantity:   l.Quantity,
				CreatedBy:  userID,
				CreatedAt:  now,
			}
			created, err := r.PendingReviews().CreateIfAbsent(ctx, pr)
			if err != nil {
				return err
			}
			if created {
				res.Created = append(res.Created, toPendingReviewResponse(pr))
			}
		}
		if len(res.Created) == 0 {
			return domain.ErrNothingToFlag
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("pending_reviews.created", len(out.Created)))
	return out, nil
}

// RegisterProduct crea el producto para el código de una revisión pendiente, con stock
// inicial igual a la cantidad pendiente; registra la línea del movimiento, elimina la
// revisión y, si ya no quedan líneas UNREGISTERED, pasa el movimiento a COMPLETED.
//
// Si el código ya tiene producto (lo registró otra revisión) no se crea nada: la línea se
// vincula a ese producto y la cantidad pendiente se aplica al stock según la dirección.
func (uc *PendingReviewUseCase) RegisterProduct(ctx context.Context, pendingReviewID string, in dto.RegisterProductRequest, userID string) (out *dto.RegisterProductResponse, err error) {
	ctx, span := tracer.Start(ctx, "inventory.RegisterProduct", trace.WithAttributes(
		attribute.String("pending_review.id", pendingReviewID),
	))
	defer func() { endSpan(span, err) }()

	if pendingReviewID == "" || userID == "" {
		return nil, domain.Invalid("revisión y usuario requeridos")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateProductAttributes(in); err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		pr, err := r.PendingReviews().GetByID(ctx, pendingReviewID)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrPendingReviewNotFound
		}
		mov, err := r.Movements().GetForUpdate(ctx, pr.MovementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrMovementNotFound
		}
		// Releer con bloqueo: otro operador pudo resolverla mientras esperábamos el movimiento.
		pr, err = r.PendingReviews().GetForUpdate(ctx, pendingReviewID)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrPendingReviewNotFound
		}

		existing, err := r.Products().FindByBarcode(ctx, pr.Barcode)
		if err != nil {
			return err
		}
		res := &dto.RegisterProductResponse{MovementID: mov.ID}
		if existing != nil {
			change, warning, err := uc.bindLine(ctx, r, mov, pr.Barcode, pr.Quantity, existing.ID, userID, pr.ID)
			if err != nil {
				return err
			}
			existing.Stock = change.Current
			res.Product = toProductResponse(existing)
			res.LinkedExisting = true
			if warning != "" {
				res.Warnings = append(res.Warnings, warning)
			}
		} else {
			product, warning, err := uc.createFromReview(ctx, r, mov, pr, in, userID)
			if err != nil {
				return err
			}
			res.Product = toProductResponse(product)
			if warning != "" {
				res.Warnings = append(res.Warnings, warning)
			}
		}
		if err := r.PendingReviews().Delete(ctx, pr.ID); err != nil {
			return err
		}

		flipped, err := r.Movements().MarkCompletedIfResolved(ctx, mov.ID)
		if err != nil {
			return err
		}
		res.MovementStatus = mov.Status
		if flipped {
			res.MovementStatus = entity.MovementStatusCompleted
		}
		if res.RemainingUnregistered, err = r.Movements().CountUnregistered(ctx, mov.ID); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithTrace(ctx).Info().
		Str("product_id", out.Product.ID).
		Str("barcode", out.Product.Barcode).
		Str("movement_id", out.MovementID).
		Str("movement_status", out.MovementStatus).
		Bool("linked_existing", out.LinkedExisting).
		Int("remaining_unregistered", out.RemainingUnregistered).
		Msg("producto registrado desde revisión pendiente")
	return out, nil
}

func (uc *PendingReviewUseCase) createFromReview(ctx context.Context, r repository.TxRepos, mov *entity.Movement, pr *entity.PendingReview, in dto.RegisterProductRequest, userID string) (*entity.Product, string, error) {
	ok, err := r.Categories().Exists(ctx, in.CategoryID)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", domain.ErrCategoryNotFound
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		Barcode:     pr.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       pr.Quantity,
		MinStock:    in.MinStock,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Products().Create(ctx, product); err != nil {
		return nil, "", err
	}
	warning, err := uc.audit.Append(ctx, r.Audit(), product.ID, userID, entity.AuditActionProductFromPending, map[string]any{
		"pending_review_id": pr.ID,
		"movement_id":       mov.ID,
		"barcode":           pr.Barcode,
		"initial_stock":     product.Stock,
		"min_stock":         product.MinStock,
	})
	if err != nil {
		return nil, "", err
	}

	updated, err := r.Movements().RegisterLine(ctx, mov.ID, pr.Barcode, product.ID)
	if err != nil {
		return nil, "", err
	}
	if !updated {
		return nil, "", domain.ErrLineAlreadyRegistered
	}
	return product, warning, nil
}

// bindLine vincula una línea UNREGISTERED a un producto existente. El stock se ajusta
// antes de tocar la línea: si no alcanza, la línea queda sin registrar.
func (uc *PendingReviewUseCase) bindLine(ctx context.Context, r repository.TxRepos, mov *entity.Movement, barcode string, quantity int, productID, userID, reviewID string) (entity.StockChange, string, error) {
	delta, err := SignedDelta(mov.Direction, quantity)
	if err != nil {
		return entity.StockChange{}, "", err
	}
	change, err := uc.ledger.AdjustInTx(ctx, r.Stock(), productID, delta)
	if err != nil {
		return entity.StockChange{}, "", err
	}
	updated, err := r.Movements().RegisterLine(ctx, mov.ID, barcode, productID)
	if err != nil {
		return entity.StockChange{}, "", err
	}
	if !updated {
		return entity.StockChange{}, "", domain.ErrLineAlreadyRegistered
	}

	payload := map[string]any{
		"movement_id": mov.ID,
		"barcode":     barcode,
		"direction":   mov.Direction,
		"quantity":    quantity,
		"old_stock":   change.Previous,
		"new_stock":   change.Current,
	}
	if reviewID != "" {
		payload["pending_review_id"] = reviewID
	}
	warning, err := uc.audit.Append(ctx, r.Audit(), productID, userID, entity.AuditActionStockAdjusted, payload)
	if err != nil {
		return entity.StockChange{}, "", err
	}
	return change, warning, nil
}

// BindKnownBarcodes vincula las líneas UNREGISTERED del movimiento cuyo código ya tiene
// producto y elimina sus revisiones pendientes. Las salidas sin stock suficiente se dejan
// sin registrar. Devuelve cuántas líneas vinculó.
func (uc *PendingReviewUseCase) BindKnownBarcodes(ctx context.Context, movementID, userID string) (bound int, err error) {
	ctx, span := tracer.Start(ctx, "inventory.BindKnownBarcodes", trace.WithAttributes(
		attribute.String("movement.id", movementID),
	))
	defer func() { endSpan(span, err) }()

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		bound = 0
		mov, err := r.Movements().GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrMovementNotFound
		}
		lines, err := r.Movements().ListLines(ctx, mov.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		reviews, err := r.PendingReviews().List(ctx, repository.PendingReviewFilter{MovementID: mov.ID, Limit: len(lines)})
		if err != nil {
			return err
		}
		reviewByBarcode := make(map[string]string, len(reviews))
		for _, pr := range reviews {
			reviewByBarcode[pr.Barcode] = pr.ID
		}

		for _, l := range lines {
			if l.Status != entity.LineStatusUnregistered {
				continue
			}
			product, err := r.Products().FindByBarcode(ctx, l.Barcode)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			reviewID := reviewByBarcode[l.Barcode]
			if _, _, err := uc.bindLine(ctx, r, mov, l.Barcode, l.Quantity, product.ID, userID, reviewID); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					uc.log.WithTrace(ctx).Warn().Str("movement_id", mov.ID).Str("barcode", l.Barcode).Msg("stock insuficiente para vincular la línea")
					continue
				}
				return err
			}
			if reviewID != "" {
				if err := r.PendingReviews().Delete(ctx, reviewID); err != nil {
					return err
				}
			}
			bound++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("lines.bound", bound))
	return bound, nil
}

// CompleteIfResolved aplica la transición guardada a COMPLETED si no quedan líneas
// UNREGISTERED. Devuelve si el movimiento cambió de estado.
func (uc *PendingReviewUseCase) CompleteIfResolved(ctx context.Context, movementID string) (bool, error) {
	var flipped bool
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		mov, err := r.Movements().GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrMovementNotFound
		}
		flipped, err = r.Movements().MarkCompletedIfResolved(ctx, mov.ID)
		return err
	})
	return flipped, err
}

func validateProductAttributes(in dto.RegisterProductRequest) error {
	var problems []string
	if in.Name == "" {
		problems = append(problems, "name es requerido")
	}
	if in.MinStock < 0 {
		problems = append(problems, "min_stock debe ser >= 0")
	}
	if in.Price.LessThan(decimal.Zero) {
		problems = append(problems, "price debe ser >= 0")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		problems = append(problems, "category_id es requerido")
	}
	if len(problems) > 0 {
		return domain.Invalid(strings.Join(problems, "; "))
	}
	return nil
}

// IsNothingToFlag informa si err indica que no había líneas nuevas que marcar.
func IsNothingToFlag(err error) bool {
	return errors.Is(err, domain.ErrNothingToFlag)
}

func toPendingReviewResponse(pr *entity.PendingReview) dto.PendingReviewResponse {
	return dto.PendingReviewResponse{
		ID:         pr.ID,
		MovementID: pr.MovementID,
		Barcode:    pr.Barcode,
		Quantity:   pr.Quantity,
		CreatedBy:  pr.CreatedBy,
		CreatedAt:  pr.CreatedAt,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		CreatedAt:   p.CreatedAt,
	}
}
