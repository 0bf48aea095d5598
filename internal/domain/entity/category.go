package entity

import "time"

// Category categoría de productos. Aquí solo se consulta su existencia.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
