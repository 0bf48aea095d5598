package entity

import "time"

// PendingReview línea sin registrar que espera la creación de su producto.
// Única por (MovementID, Barcode).
type PendingReview struct {
	ID         string
	MovementID string
	Barcode    string
	Quantity   int
	CreatedBy  string
	CreatedAt  time.Time
}
