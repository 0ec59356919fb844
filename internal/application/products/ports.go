package products

import (
	"context"

	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la creación del producto y la
// siembra de su movimiento de apertura sean atómicas.
type TxRunner interface {
	RunProducts(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
