package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// RegisterPayment asocia el único pago admitido a una compra pendiente y la
// transiciona a PAGADO. Un segundo pago falla con ErrPaymentAlreadyExists;
// pagar un documento que no está PENDIENTE_PAGO falla con
// ErrInvalidStateTransition.
func (uc *PurchaseUseCase) RegisterPayment(ctx context.Context, companyID, purchaseID string, in dto.RegisterPurchasePaymentRequest) (*dto.PurchaseResponse, error) {
	if in.Method == "" || in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	purchase, err := uc.scopedPurchase(companyID, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.PaymentID != nil {
		return nil, domain.ErrPaymentAlreadyExists
	}
	if purchase.Status != entity.PurchaseStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}

	now := time.Now()
	payment := &entity.Payment{
		ID:        uuid.New().String(),
		Method:    in.Method,
		Amount:    in.Amount,
		Date:      now,
		Notes:     in.Notes,
		CreatedAt: now,
	}

	err = uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
		_ repository.BranchRepository,
		_ repository.SupplierProductRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		purchase.PaymentID = &payment.ID
		purchase.Status = entity.PurchaseStatusPaid
		purchase.UpdatedAt = now
		return purchaseRepo.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetPurchase(ctx, companyID, purchaseID)
}
