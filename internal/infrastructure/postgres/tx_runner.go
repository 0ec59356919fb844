package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/gestion-comercial/internal/application/inventory"
	"github.com/tu-usuario/gestion-comercial/internal/application/products"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/application/sales"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// Ensure TxRunner implements the per-feature runners.
var _ products.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a la tx. Commit si el callback retorna nil, Rollback si no:
// es el único mecanismo de recuperación ante fallas parciales del motor de
// documentos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunProducts transacción para alta de productos con siembra de apertura.
func (r *TxRunner) RunProducts(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewProductRepository(q), NewStockMovementRepository(q))
	})
}

// RunInventory transacción para ajustes manuales del libro de stock.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewProductRepository(q), NewStockMovementRepository(q))
	})
}

// RunPurchases transacción para el orquestador de compras.
func (r *TxRunner) RunPurchases(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	branchRepo repository.BranchRepository,
	supplierRepo repository.SupplierProductRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewPurchaseRepository(q),
			NewProductRepository(q),
			NewStockMovementRepository(q),
			NewBranchRepository(q),
			NewSupplierProductRepository(q),
			NewPaymentRepository(q),
		)
	})
}

// RunSales transacción para el orquestador de ventas.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	branchRepo repository.BranchRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewSaleRepository(q),
			NewProductRepository(q),
			NewStockMovementRepository(q),
			NewBranchRepository(q),
			NewPaymentRepository(q),
		)
	})
}
