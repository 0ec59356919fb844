package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// DeletePurchase elimina un documento de compra con reverso compensatorio: por
// cada línea descuenta el stock que la línea había sumado y agrega un
// ajuste_manual con delta opuesto, luego elimina líneas, costos, cabecera y el
// pago si existía. Todo en una transacción: el libro queda con suma neta cero
// para el documento.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, companyID, userID, purchaseID string) error {
	purchase, err := uc.scopedPurchase(companyID, purchaseID)
	if err != nil {
		return err
	}
	return uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.BranchRepository,
		_ repository.SupplierProductRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		return deleteInTx(purchaseRepo, productRepo, movRepo, paymentRepo, purchase, userID)
	})
}

// BulkDeletePurchases elimina un lote de documentos en una sola transacción.
// Primero valida que todos los ids existan y pertenezcan al alcance pedido
// (sucursal si viene, empresa siempre): cualquier id fuera de alcance falla el
// lote completo con ErrScopeViolation antes de mutar nada.
func (uc *PurchaseUseCase) BulkDeletePurchases(ctx context.Context, companyID, userID string, ids []string, branchID string) error {
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	docs := make([]*entity.Purchase, 0, len(ids))
	for _, id := range ids {
		purchase, err := uc.purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		branch, err := uc.branchRepo.GetByID(purchase.BranchID)
		if err != nil {
			return err
		}
		if branch == nil || branch.CompanyID != companyID {
			return domain.ErrScopeViolation
		}
		if branchID != "" && purchase.BranchID != branchID {
			return domain.ErrScopeViolation
		}
		docs = append(docs, purchase)
	}
	return uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.BranchRepository,
		_ repository.SupplierProductRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		for _, purchase := range docs {
			if err := deleteInTx(purchaseRepo, productRepo, movRepo, paymentRepo, purchase, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteInTx ejecuta el protocolo de eliminación de una compra como lista de
// pasos compensatorios dentro de la transacción del caller:
//  1. por cada línea, revertir stock (DecreaseStock) y registrar ajuste_manual
//  2. eliminar líneas (sentencia explícita: las FK no cascadean)
//  3. eliminar costos adicionales
//  4. eliminar cabecera
//  5. eliminar el pago asociado si existía
func deleteInTx(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	paymentRepo repository.PaymentRepository,
	purchase *entity.Purchase,
	userID string,
) error {
	lines, err := purchaseRepo.GetLines(purchase.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, line := range lines {
		newStock, err := productRepo.DecreaseStock(line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		docID := purchase.ID
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      line.ProductID,
			BranchID:       purchase.BranchID,
			Type:           entity.MovementTypeAdjustment,
			Description:    fmt.Sprintf("anulación compra N° %d", purchase.Number),
			Quantity:       -line.Quantity,
			ResultingStock: &newStock,
			DocumentID:     &docID,
			CreatedAt:      now,
			CreatedBy:      userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
	}
	if err := purchaseRepo.DeleteLines(purchase.ID); err != nil {
		return err
	}
	if err := purchaseRepo.DeleteCosts(purchase.ID); err != nil {
		return err
	}
	if err := purchaseRepo.Delete(purchase.ID); err != nil {
		return err
	}
	if purchase.PaymentID != nil {
		return paymentRepo.Delete(*purchase.PaymentID)
	}
	return nil
}
