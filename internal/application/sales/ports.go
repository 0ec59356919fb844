package sales

import (
	"context"

	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La creación de la venta corre numeración, pago,
// cabecera y líneas en una sola transacción; la eliminación corre el reverso
// compensatorio de la misma forma.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		branchRepo repository.BranchRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
