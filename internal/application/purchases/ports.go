package purchases

import (
	"context"

	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El orquestador de compras corre la reserva de
// número, la materialización de productos, la cabecera y el procesamiento de
// líneas dentro de una misma transacción: ante cualquier falla el rollback
// revierte todas las escrituras intermedias.
type TxRunner interface {
	RunPurchases(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		branchRepo repository.BranchRepository,
		supplierRepo repository.SupplierProductRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
