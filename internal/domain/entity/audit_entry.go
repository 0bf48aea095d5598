package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionStockAdjusted      = "STOCK_ADJUSTED"
	AuditActionProductFromPending = "PRODUCT_CREATED_FROM_PENDING"
)

// AuditEntry entrada de auditoría (solo inserción, nunca se modifica ni se borra).
type AuditEntry struct {
	ID        string
	ProductID string
	UserID    string
	Action    string
	Payload   json.RawMessage // valores antes/después según la acción
	CreatedAt time.Time
}
