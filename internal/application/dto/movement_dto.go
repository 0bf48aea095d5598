package dto

import "time"

// BarcodeQuantity par (código, cantidad) de una línea sin registrar.
type BarcodeQuantity struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

// LowStockAlert producto que quedó bajo su stock mínimo tras el movimiento.
type LowStockAlert struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

// ConfirmMovementResponse salida de POST /api/carts/:id/confirm.
type ConfirmMovementResponse struct {
	MovementID   string            `json:"movement_id"`
	Status       string            `json:"status"`
	Unregistered []BarcodeQuantity `json:"unregistered"`
	LowStock     []LowStockAlert   `json:"low_stock,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// MovementLineResponse línea de un movimiento finalizado.
type MovementLineResponse struct {
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	ProductID string `json:"product_id,omitempty"`
}

// MovementResponse movimiento finalizado (Lines vacío en listados).
type MovementResponse struct {
	ID        string                 `json:"id"`
	Direction string                 `json:"direction"`
	CreatedBy string                 `json:"created_by"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	Lines     []MovementLineResponse `json:"lines,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditEntryResponse entrada de la bitácora de un producto.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
