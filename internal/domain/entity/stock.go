package entity

// StockChange resultado de un ajuste atómico del contador de stock.
type StockChange struct {
	ProductID string
	Delta     int
	Previous  int
	Current   int
	MinStock  int
}

// BelowMinimum informa si el ajuste dejó el producto bajo su stock mínimo.
func (c StockChange) BelowMinimum() bool {
	return c.Current < c.MinStock
}
