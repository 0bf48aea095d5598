package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo identificado por código de barras.
// Stock es el contador único del producto; solo el ledger de stock lo modifica.
type Product struct {
	ID          string
	CategoryID  string
	Barcode     string // único
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	MinStock    int // umbral de stock mínimo
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum informa si el stock actual quedó por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.Stock < p.MinStock
}
