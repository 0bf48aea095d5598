package inventory

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/inventario-scan/internal/application/dto"
	"github.com/jhoicas/inventario-scan/internal/domain"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre movimientos, revisiones y auditoría.
type QueryUseCase struct {
	movements repository.MovementRepository
	reviews   repository.PendingReviewRepository
	audit     repository.AuditRepository
	pdf       MovementPDFGenerator
}

// NewQueryUseCase construye el caso de uso. pdf puede ser nil (sin comprobante PDF).
func NewQueryUseCase(
	movements repository.MovementRepository,
	reviews repository.PendingReviewRepository,
	audit repository.AuditRepository,
	pdf MovementPDFGenerator,
) *QueryUseCase {
	return &QueryUseCase{movements: movements, reviews: reviews, audit: audit, pdf: pdf}
}

// ListMovements lista movimientos (más recientes primero) con filtro opcional de estado.
func (uc *QueryUseCase) ListMovements(ctx context.Context, status, createdBy string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if status != "" && status != entity.MovementStatusCompleted && status != entity.MovementStatusCompletedWithUnregistered {
		return nil, domain.Invalid("status inválido: " + status)
	}
	page.Normalize()
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		Status:    status,
		CreatedBy: createdBy,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetMovement devuelve el movimiento con sus líneas.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.loadMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

// MovementPDF genera el comprobante PDF del movimiento.
func (uc *QueryUseCase) MovementPDF(ctx context.Context, id string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrNotFound
	}
	mov, err := uc.loadMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateMovementPDF(ctx, mov)
}

// ListPendingReviews lista revisiones pendientes, opcionalmente de un movimiento.
func (uc *QueryUseCase) ListPendingReviews(ctx context.Context, movementID string, page dto.PageRequest) (*dto.PendingReviewListResponse, error) {
	page.Normalize()
	list, err := uc.reviews.List(ctx, repository.PendingReviewFilter{
		MovementID: movementID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PendingReviewResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, toPendingReviewResponse(pr))
	}
	return &dto.PendingReviewListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ProductAudit devuelve la bitácora de un producto (más recientes primero).
func (uc *QueryUseCase) ProductAudit(ctx context.Context, productID string, page dto.PageRequest) ([]dto.AuditEntryResponse, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id requerido")
	}
	page.Normalize()
	list, err := uc.audit.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		var payload any
		if len(e.Payload) > 0 {
			_ = json.Unmarshal(e.Payload, &payload)
		}
		out = append(out, dto.AuditEntryResponse{
			ID:        e.ID,
			ProductID: e.ProductID,
			UserID:    e.UserID,
			Action:    e.Action,
			Payload:   payload,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (uc *QueryUseCase) loadMovement(ctx context.Context, id string) (*entity.Movement, error) {
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	lines, err := uc.movements.ListLines(ctx, mov.ID)
	if err != nil {
		return nil, err
	}
	mov.Lines = lines
	return mov, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:        m.ID,
		Direction: m.Direction,
		CreatedBy: m.CreatedBy,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
	for _, l := range m.Lines {
		out.Lines = append(out.Lines, dto.MovementLineResponse{
			Barcode:   l.Barcode,
			Quantity:  l.Quantity,
			Status:    l.Status,
			ProductID: l.ProductID,
		})
	}
	return out
}
