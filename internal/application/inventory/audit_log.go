package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// AuditLog escribe la bitácora de auditoría dentro de la transacción del cambio que describe.
//
// Con strict=true un fallo de auditoría aborta la operación completa (Rollback).
// Con strict=false el fallo se registra en el log y se devuelve como advertencia al caller;
// la operación principal continúa.
type AuditLog struct {
	strict bool
	log    *logger.Logger
}

// NewAuditLog construye la bitácora.
func NewAuditLog(strict bool, log *logger.Logger) *AuditLog {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditLog{strict: strict, log: log}
}

// Append agrega una entrada. Devuelve una advertencia no vacía cuando la entrada se perdió
// en modo no estricto.
func (a *AuditLog) Append(
	ctx context.Context,
	repo repository.AuditRepository,
	productID, userID, action string,
	payload any,
) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return a.fail(ctx, productID, action, fmt.Errorf("serializar payload: %w", err))
	}
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		Action:    action,
		Payload:   raw,
		CreatedAt: time.Now(),
	}
	if err := repo.Append(ctx, entry); err != nil {
		return a.fail(ctx, productID, action, err)
	}
	return "", nil
}

func (a *AuditLog) fail(ctx context.Context, productID, action string, err error) (string, error) {
	if a.strict {
		return "", fmt.Errorf("auditoría %s: %w", action, err)
	}
	a.log.WithTrace(ctx).Warn().Err(err).
		Str("product_id", productID).
		Str("action", action).
		Msg("entrada de auditoría no registrada")
	return fmt.Sprintf("auditoría %s no registrada para el producto %s", action, productID), nil
}
