package entity

import "time"

// Direcciones válidas de un carrito / movimiento.
const (
	DirectionEntry = "ENTRY" // entrada: suma stock
	DirectionExit  = "EXIT"  // salida: resta stock
)

// ValidDirection informa si d es una de las dos direcciones admitidas.
func ValidDirection(d string) bool {
	return d == DirectionEntry || d == DirectionExit
}

// Cart es el movimiento temporal: la sesión de escaneo en curso de un operador.
// Se elimina al confirmarse (o al descartarse).
type Cart struct {
	ID        string
	UserID    string
	Direction string // ENTRY, EXIT
	CreatedAt time.Time
	Lines     []*CartLine
}

// CartLine una línea escaneada. Única por (CartID, Barcode): un re-escaneo suma cantidad.
type CartLine struct {
	CartID    string
	Barcode   string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
