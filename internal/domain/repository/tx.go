package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos interface {
	Carts() CartRepository
	Movements() MovementRepository
	PendingReviews() PendingReviewRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Stock() StockRepository
	Audit() AuditRepository
}
