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

// SaleUseCase orquesta el documento de venta: numeración por talonario, pago
// obligatorio creado junto con el documento, procesamiento de líneas con
// verificación de stock, actualización de líneas por diferencia y eliminación
// con reverso compensatorio.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, saleRepo: saleRepo, productRepo: productRepo, branchRepo: branchRepo}
}

// CreateSale crea el documento de venta. Secuencia simétrica a la compra, sin
// materialización de productos: las líneas referencian productos existentes por
// id directo. Una línea sin stock suficiente aborta la transacción completa.
func (uc *SaleUseCase) CreateSale(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.BranchID == "" || len(in.Lines) == 0 || in.Payment.Method == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Validar líneas y productos fuera de la tx (solo lectura).
	total := decimal.Zero
	for _, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.ErrAmbiguousProductRef
		}
		if l.Quantity <= 0 || l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.BranchID != in.BranchID {
			return nil, domain.ErrNotFound
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	saleID := uuid.New().String()

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		branchRepo repository.BranchRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		number, err := branchRepo.IncrementSaleCounter(in.BranchID)
		if err != nil {
			return err
		}

		// El pago es obligatorio y nace con el documento.
		payment := &entity.Payment{
			ID:        uuid.New().String(),
			Method:    in.Payment.Method,
			Amount:    total,
			Date:      date,
			Notes:     in.Payment.Notes,
			CreatedAt: now,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		var customerID *string
		if in.CustomerID != "" {
			customerID = &in.CustomerID
		}
		sale := &entity.Sale{
			ID:         saleID,
			BranchID:   in.BranchID,
			Number:     number,
			Date:       date,
			CustomerID: customerID,
			PaymentID:  payment.ID,
			Total:      total,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		for _, l := range in.Lines {
			if err := uc.applyLine(saleRepo, productRepo, movRepo, sale, l, userID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, companyID, saleID)
}

// applyLine es el procesador de línea de venta: verifica stock suficiente,
// aplica exactamente una mutación (DecreaseStock), persiste la línea y agrega
// el movimiento registral de tipo venta con delta negativo.
func (uc *SaleUseCase) applyLine(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	sale *entity.Sale,
	l dto.SaleLineRequest,
	userID string,
	now time.Time,
) error {
	if _, err := productRepo.DecreaseStock(l.ProductID, l.Quantity); err != nil {
		return err
	}
	line := &entity.SaleLine{
		ID:        uuid.New().String(),
		SaleID:    sale.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
	}
	if err := saleRepo.CreateLine(line); err != nil {
		return err
	}
	docID := sale.ID
	return movRepo.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   l.ProductID,
		BranchID:    sale.BranchID,
		Type:        entity.MovementTypeSale,
		Description: fmt.Sprintf("venta N° %d", sale.Number),
		Quantity:    -l.Quantity,
		DocumentID:  &docID,
		CreatedAt:   now,
		CreatedBy:   userID,
	})
}

// GetSale devuelve el documento con sus líneas, validando el tenant.
func (uc *SaleUseCase) GetSale(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.scopedSale(companyID, saleID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines), nil
}

// ListSales lista los documentos de una sucursal.
func (uc *SaleUseCase) ListSales(ctx context.Context, companyID, branchID string, limit, offset int) ([]*dto.SaleResponse, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.saleRepo.ListByBranch(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, len(list))
	for i, s := range list {
		out[i] = toSaleResponse(s, nil)
	}
	return out, nil
}

func (uc *SaleUseCase) scopedSale(companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(sale.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func toSaleResponse(s *entity.Sale, lines []*entity.SaleLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:         s.ID,
		BranchID:   s.BranchID,
		Number:     s.Number,
		Date:       s.Date,
		CustomerID: s.CustomerID,
		PaymentID:  s.PaymentID,
		Total:      s.Total,
		Lines:      make([]dto.SaleLineResponse, len(lines)),
	}
	for i, l := range lines {
		resp.Lines[i] = dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
	}
	return resp
}
