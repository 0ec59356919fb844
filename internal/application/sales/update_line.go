package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// UpdateSaleLine actualiza una línea de venta con campos explícitos.
//
// Cambio de cantidad: se aplica al stock solo la diferencia (no un reverso
// completo más re-aplicación); si la diferencia dejaría el stock negativo, la
// actualización falla con ErrInsufficientStock. Cambio de producto: el stock
// del producto anterior se acredita por completo antes de debitar el nuevo.
func (uc *SaleUseCase) UpdateSaleLine(ctx context.Context, companyID, userID, saleID, lineID string, in dto.UpdateSaleLineRequest) (*dto.SaleResponse, error) {
	sale, err := uc.scopedSale(companyID, saleID)
	if err != nil {
		return nil, err
	}
	line, err := uc.saleRepo.GetLineByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.SaleID != saleID {
		return nil, domain.ErrNotFound
	}

	newQty := line.Quantity
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		newQty = *in.Quantity
	}
	newProductID := line.ProductID
	if in.ProductID != nil {
		if *in.ProductID == "" {
			return nil, domain.ErrAmbiguousProductRef
		}
		newProductID = *in.ProductID
	}
	newPrice := line.UnitPrice
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		newPrice = *in.UnitPrice
	}
	if newProductID != line.ProductID {
		product, err := uc.productRepo.GetByID(newProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.BranchID != sale.BranchID {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.BranchRepository,
		_ repository.PaymentRepository,
	) error {
		docID := sale.ID
		switch {
		case newProductID != line.ProductID:
			// Acreditar el producto anterior por completo antes de debitar el nuevo.
			restored, err := productRepo.IncreaseStock(line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      line.ProductID,
				BranchID:       sale.BranchID,
				Type:           entity.MovementTypeAdjustment,
				Description:    fmt.Sprintf("cambio de producto en venta N° %d", sale.Number),
				Quantity:       line.Quantity,
				ResultingStock: &restored,
				DocumentID:     &docID,
				CreatedAt:      now,
				CreatedBy:      userID,
			}); err != nil {
				return err
			}
			if _, err := productRepo.DecreaseStock(newProductID, newQty); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   newProductID,
				BranchID:    sale.BranchID,
				Type:        entity.MovementTypeSale,
				Description: fmt.Sprintf("venta N° %d", sale.Number),
				Quantity:    -newQty,
				DocumentID:  &docID,
				CreatedAt:   now,
				CreatedBy:   userID,
			}); err != nil {
				return err
			}
		case newQty != line.Quantity:
			// Solo la diferencia toca el stock.
			diff := newQty - line.Quantity
			if diff > 0 {
				if _, err := productRepo.DecreaseStock(line.ProductID, diff); err != nil {
					return err
				}
			} else {
				if _, err := productRepo.IncreaseStock(line.ProductID, -diff); err != nil {
					return err
				}
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   line.ProductID,
				BranchID:    sale.BranchID,
				Type:        entity.MovementTypeSale,
				Description: fmt.Sprintf("corrección venta N° %d", sale.Number),
				Quantity:    -diff,
				DocumentID:  &docID,
				CreatedAt:   now,
				CreatedBy:   userID,
			}); err != nil {
				return err
			}
		}

		oldSubtotal := line.Subtotal
		line.ProductID = newProductID
		line.Quantity = newQty
		line.UnitPrice = newPrice
		line.Subtotal = newPrice.Mul(decimal.NewFromInt(int64(newQty)))
		if err := saleRepo.UpdateLine(line); err != nil {
			return err
		}

		sale.Total = sale.Total.Sub(oldSubtotal).Add(line.Subtotal)
		sale.UpdatedAt = now
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, companyID, saleID)
}
