package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingReviewResponse revisión pendiente.
type PendingReviewResponse struct {
	ID         string    `json:"id"`
	MovementID string    `json:"movement_id"`
	Barcode    string    `json:"barcode"`
	Quantity   int       `json:"quantity"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// FlagUnregisteredResponse salida de POST /api/movements/:id/pending-reviews.
type FlagUnregisteredResponse struct {
	MovementID string                  `json:"movement_id"`
	Created    []PendingReviewResponse `json:"created"`
}

// PendingReviewListResponse lista paginada de revisiones pendientes.
type PendingReviewListResponse struct {
	Items []PendingReviewResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// RegisterProductRequest body para POST /api/pending-reviews/:id/register.
type RegisterProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	MinStock    int             `json:"min_stock"`
	Price       decimal.Decimal `json:"price"`
}

// ProductResponse producto creado desde una revisión.
type ProductResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RegisterProductResponse salida del registro de una revisión.
// LinkedExisting indica que el código ya tenía producto y solo se ajustó su stock.
type RegisterProductResponse struct {
	Product               ProductResponse `json:"product"`
	LinkedExisting        bool            `json:"linked_existing"`
	MovementID            string          `json:"movement_id"`
	MovementStatus        string          `json:"movement_status"`
	RemainingUnregistered int             `json:"remaining_unregistered"`
	Warnings              []string        `json:"warnings,omitempty"`
}
