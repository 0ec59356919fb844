package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// DeleteSale elimina un documento de venta con reverso compensatorio: por cada
// línea devuelve el stock vendido y agrega un ajuste_manual con delta positivo,
// elimina las líneas, desasocia y elimina el pago, y elimina la cabecera. Todo
// en una transacción.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, companyID, userID, saleID string) error {
	sale, err := uc.scopedSale(companyID, saleID)
	if err != nil {
		return err
	}
	return uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.BranchRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		return deleteInTx(saleRepo, productRepo, movRepo, paymentRepo, sale, userID)
	})
}

// BulkDeleteSales elimina un lote de ventas en una sola transacción, validando
// primero que cada id exista y pertenezca al alcance (sucursal si viene,
// empresa siempre). Un id fuera de alcance falla el lote con ErrScopeViolation.
func (uc *SaleUseCase) BulkDeleteSales(ctx context.Context, companyID, userID string, ids []string, branchID string) error {
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	docs := make([]*entity.Sale, 0, len(ids))
	for _, id := range ids {
		sale, err := uc.saleRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		branch, err := uc.branchRepo.GetByID(sale.BranchID)
		if err != nil {
			return err
		}
		if branch == nil || branch.CompanyID != companyID {
			return domain.ErrScopeViolation
		}
		if branchID != "" && sale.BranchID != branchID {
			return domain.ErrScopeViolation
		}
		docs = append(docs, sale)
	}
	return uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.BranchRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		for _, sale := range docs {
			if err := deleteInTx(saleRepo, productRepo, movRepo, paymentRepo, sale, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteInTx ejecuta el protocolo de eliminación de una venta dentro de la
// transacción del caller:
//  1. por cada línea, devolver stock (IncreaseStock) y registrar ajuste_manual
//  2. eliminar líneas (sentencia explícita: las FK no cascadean)
//  3. eliminar cabecera (desasocia el pago: la FK vive en la cabecera)
//  4. eliminar el pago
func deleteInTx(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	paymentRepo repository.PaymentRepository,
	sale *entity.Sale,
	userID string,
) error {
	lines, err := saleRepo.GetLines(sale.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, line := range lines {
		newStock, err := productRepo.IncreaseStock(line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		docID := sale.ID
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      line.ProductID,
			BranchID:       sale.BranchID,
			Type:           entity.MovementTypeAdjustment,
			Description:    fmt.Sprintf("anulación venta N° %d", sale.Number),
			Quantity:       line.Quantity,
			ResultingStock: &newStock,
			DocumentID:     &docID,
			CreatedAt:      now,
			CreatedBy:      userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
	}
	if err := saleRepo.DeleteLines(sale.ID); err != nil {
		return err
	}
	if err := saleRepo.Delete(sale.ID); err != nil {
		return err
	}
	return paymentRepo.Delete(sale.PaymentID)
}
