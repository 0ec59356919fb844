package purchases

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

// PurchaseUseCase orquesta el ciclo de vida del documento de compra: numeración
// por talonario de sucursal, materialización de productos por código temporal,
// procesamiento de líneas (stock + libro), pago opcional único y eliminación
// con reverso compensatorio.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	supplierRepo repository.SupplierProductRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	supplierRepo repository.SupplierProductRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		supplierRepo: supplierRepo,
	}
}

// resolvedLine es una línea del request con su referencia de producto ya
// clasificada. La precedencia cuando llega más de un identificador es:
// id directo > relación de proveedor > código temporal.
type resolvedLine struct {
	productID         string  // vacío para líneas de código temporal (se resuelve en tx)
	supplierProductID *string
	tempCode          *string
	tempName          string
	quantity          int
	unitPrice         decimal.Decimal
	taxRate           decimal.Decimal
}

// CreatePurchase crea el documento de compra. Las validaciones pesadas (sucursal,
// resolución de productos y relaciones de proveedor) corren antes de reservar
// número; la reserva, la materialización de productos temporales, la cabecera y
// las líneas corren en una sola transacción.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, companyID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.BranchID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// 1) Sucursal: existe y pertenece a la empresa. Aborta antes de toda mutación.
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

	// 2) Clasificar y pre-resolver líneas (solo lectura, fuera de la tx).
	lines, err := uc.resolveLines(in)
	if err != nil {
		return nil, err
	}

	// 3) Totales: subtotales + impuestos + costos adicionales.
	total := decimal.Zero
	for _, l := range lines {
		subtotal := l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
		total = total.Add(subtotal).Add(subtotal.Mul(l.taxRate))
	}
	for _, c := range in.Costs {
		if c.Amount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		total = total.Add(c.Amount)
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	purchaseID := uuid.New().String()

	err = uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		branchRepo repository.BranchRepository,
		supplierRepo repository.SupplierProductRepository,
		_ repository.PaymentRepository,
	) error {
		// 4) Reservar número: el UPDATE deja bloqueada la fila de la sucursal,
		// serializando la numeración de documentos concurrentes.
		number, err := branchRepo.IncrementPurchaseCounter(in.BranchID)
		if err != nil {
			return err
		}

		// 5) Materializar productos por código temporal antes de procesar líneas.
		if err := uc.materializeTempProducts(productRepo, supplierRepo, in, lines, now); err != nil {
			return err
		}

		// 6) Cabecera con el número reservado.
		var supplierID *string
		if in.SupplierID != "" {
			supplierID = &in.SupplierID
		}
		purchase := &entity.Purchase{
			ID:         purchaseID,
			BranchID:   in.BranchID,
			Number:     number,
			Date:       date,
			SupplierID: supplierID,
			Status:     entity.PurchaseStatusPending,
			Total:      total,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, c := range in.Costs {
			cost := &entity.PurchaseCost{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				Concept:    c.Concept,
				Amount:     c.Amount,
			}
			if err := purchaseRepo.CreateCost(cost); err != nil {
				return err
			}
		}

		// 7) Procesar líneas en el orden recibido.
		for _, l := range lines {
			if err := uc.applyLine(purchaseRepo, productRepo, movRepo, purchase, l, userID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8) Recargar el documento con sus relaciones.
	return uc.GetPurchase(ctx, companyID, purchaseID)
}

// resolveLines valida cada línea y resuelve la referencia de producto con la
// precedencia documentada. Una línea sin ningún identificador falla con
// ErrAmbiguousProductRef antes de cualquier mutación.
func (uc *PurchaseUseCase) resolveLines(in dto.CreatePurchaseRequest) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(in.Lines))
	for _, req := range in.Lines {
		if req.Quantity <= 0 || req.UnitPrice.LessThan(decimal.Zero) || req.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		l := resolvedLine{
			quantity:  req.Quantity,
			unitPrice: req.UnitPrice,
			taxRate:   req.TaxRate,
		}
		switch {
		case req.ProductID != "":
			product, err := uc.productRepo.GetByID(req.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil || product.BranchID != in.BranchID {
				return nil, domain.ErrNotFound
			}
			l.productID = product.ID
		case req.SupplierProductID != "":
			relation, err := uc.supplierRepo.GetByID(req.SupplierProductID)
			if err != nil {
				return nil, err
			}
			if relation == nil {
				return nil, domain.ErrNotFound
			}
			product, err := uc.productRepo.GetByID(relation.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil || product.BranchID != in.BranchID {
				return nil, domain.ErrNotFound
			}
			l.productID = product.ID
			relationID := relation.ID
			l.supplierProductID = &relationID
		case req.TempCode != "":
			if req.TempName == "" {
				return nil, domain.ErrInvalidInput
			}
			code := req.TempCode
			l.tempCode = &code
			l.tempName = req.TempName
		default:
			return nil, domain.ErrAmbiguousProductRef
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// materializeTempProducts crea los productos referenciados por código temporal.
// Lee con FOR UPDATE por código dentro de la sucursal: dos requests concurrentes
// con el mismo código no crean duplicados. El producto nace con stock 0 y
// stock_apertura igual a la cantidad pedida; el delta real lo aplica el
// procesador de línea (una sola mutación por línea).
func (uc *PurchaseUseCase) materializeTempProducts(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierProductRepository,
	in dto.CreatePurchaseRequest,
	lines []resolvedLine,
	now time.Time,
) error {
	seen := make(map[string]bool)
	for _, l := range lines {
		if l.tempCode == nil || seen[*l.tempCode] {
			continue
		}
		seen[*l.tempCode] = true

		existing, err := productRepo.GetByBranchAndCodeForUpdate(in.BranchID, *l.tempCode)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		product := &entity.Product{
			ID:           uuid.New().String(),
			BranchID:     in.BranchID,
			Code:         *l.tempCode,
			Name:         l.tempName,
			CostPrice:    l.unitPrice,
			SalePrice:    decimal.Zero,
			Stock:        0,
			OpeningStock: l.quantity,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.SupplierID != "" {
			relation := &entity.SupplierProduct{
				ID:            uuid.New().String(),
				SupplierID:    in.SupplierID,
				ProductID:     product.ID,
				SupplierPrice: l.unitPrice,
				CreatedAt:     now,
			}
			if err := supplierRepo.Create(relation); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyLine es el procesador de línea de compra: aplica exactamente una mutación
// de stock (IncreaseStock), persiste la línea con el producto resuelto y agrega
// el movimiento registral de tipo compra (sin snapshot: documenta la adquisición,
// el delta ya fue aplicado).
func (uc *PurchaseUseCase) applyLine(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	purchase *entity.Purchase,
	l resolvedLine,
	userID string,
	now time.Time,
) error {
	productID := l.productID
	if l.tempCode != nil {
		// Re-resolver por código dentro de la sucursal: el producto ya fue
		// materializado en esta misma transacción.
		product, err := productRepo.GetByBranchAndCode(purchase.BranchID, *l.tempCode)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		productID = product.ID
	}

	if _, err := productRepo.IncreaseStock(productID, l.quantity); err != nil {
		return err
	}

	subtotal := l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
	line := &entity.PurchaseLine{
		ID:                uuid.New().String(),
		PurchaseID:        purchase.ID,
		ProductID:         productID,
		SupplierProductID: l.supplierProductID,
		TempCode:          l.tempCode,
		Quantity:          l.quantity,
		UnitPrice:         l.unitPrice,
		TaxRate:           l.taxRate,
		TaxAmount:         subtotal.Mul(l.taxRate),
		Subtotal:          subtotal,
	}
	if err := purchaseRepo.CreateLine(line); err != nil {
		return err
	}

	docID := purchase.ID
	return movRepo.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   productID,
		BranchID:    purchase.BranchID,
		Type:        entity.MovementTypePurchase,
		Description: fmt.Sprintf("compra N° %d", purchase.Number),
		Quantity:    l.quantity,
		DocumentID:  &docID,
		CreatedAt:   now,
		CreatedBy:   userID,
	})
}

// GetPurchase devuelve el documento con líneas y costos, validando el tenant.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, companyID, purchaseID string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.scopedPurchase(companyID, purchaseID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.purchaseRepo.GetLines(purchaseID)
	if err != nil {
		return nil, err
	}
	costs, err := uc.purchaseRepo.GetCosts(purchaseID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, lines, costs), nil
}

// ListPurchases lista los documentos de una sucursal.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, companyID, branchID string, limit, offset int) ([]*dto.PurchaseResponse, error) {
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
	list, err := uc.purchaseRepo.ListByBranch(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, len(list))
	for i, p := range list {
		out[i] = toPurchaseResponse(p, nil, nil)
	}
	return out, nil
}

func (uc *PurchaseUseCase) scopedPurchase(companyID, purchaseID string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(purchase.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return purchase, nil
}

func toPurchaseResponse(p *entity.Purchase, lines []*entity.PurchaseLine, costs []*entity.PurchaseCost) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		BranchID:   p.BranchID,
		Number:     p.Number,
		Date:       p.Date,
		SupplierID: p.SupplierID,
		Status:     p.Status,
		PaymentID:  p.PaymentID,
		Total:      p.Total,
		Lines:      make([]dto.PurchaseLineResponse, len(lines)),
	}
	for i, l := range lines {
		resp.Lines[i] = dto.PurchaseLineResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			SupplierProductID: l.SupplierProductID,
			TempCode:          l.TempCode,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			TaxRate:           l.TaxRate,
			TaxAmount:         l.TaxAmount,
			Subtotal:          l.Subtotal,
		}
	}
	for _, c := range costs {
		resp.Costs = append(resp.Costs, dto.PurchaseCostResponse{ID: c.ID, Concept: c.Concept, Amount: c.Amount})
	}
	return resp
}
