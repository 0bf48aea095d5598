package entity

import "time"

// Estados de un movimiento finalizado.
const (
	MovementStatusCompleted                 = "COMPLETED"
	MovementStatusCompletedWithUnregistered = "COMPLETED_WITH_UNREGISTERED"
)

// Estados de una línea de movimiento.
const (
	LineStatusRegistered   = "REGISTERED"
	LineStatusUnregistered = "UNREGISTERED"
)

// Movement registro inmutable de un movimiento confirmado.
// Única transición permitida: COMPLETED_WITH_UNREGISTERED -> COMPLETED.
type Movement struct {
	ID        string
	Direction string
	CreatedBy string
	Status    string
	CreatedAt time.Time
	Lines     []*MovementLine
}

// MovementLine una línea del movimiento. Status es REGISTERED si y solo si ProductID != "".
type MovementLine struct {
	ID         string
	MovementID string
	Barcode    string
	Quantity   int
	Status     string
	ProductID  string // vacío mientras la línea esté UNREGISTERED
	CreatedAt  time.Time
}

// Registered informa si la línea ya está asociada a un producto.
func (l *MovementLine) Registered() bool {
	return l.Status == LineStatusRegistered && l.ProductID != ""
}
