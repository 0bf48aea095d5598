package dto

import "time"

// OpenCartRequest body para POST /api/carts.
type OpenCartRequest struct {
	Direction string `json:"direction"` // ENTRY | EXIT
}

// ScanItemRequest body para POST /api/carts/:id/items.
type ScanItemRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

// UpdateItemRequest body para PUT /api/carts/:id/items/:barcode.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse línea escaneada.
type CartLineResponse struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

// CartResponse carrito con sus líneas.
type CartResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Direction  string             `json:"direction"`
	CreatedAt  time.Time          `json:"created_at"`
	Lines      []CartLineResponse `json:"lines"`
	TotalItems int                `json:"total_items"`
}
