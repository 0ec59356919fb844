package receipts

import (
	"context"
	"fmt"

	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// ReceiptUseCase genera la representación gráfica (PDF) de un documento de
// compra o venta ya persistido.
type ReceiptUseCase struct {
	purchaseRepo repository.PurchaseRepository
	saleRepo     repository.SaleRepository
	branchRepo   repository.BranchRepository
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	branchRepo repository.BranchRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		branchRepo:   branchRepo,
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		generator:    generator,
	}
}

// DownloadPurchasePDF genera el comprobante de una compra.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el documento no existe.
//   - domain.ErrForbidden        si no pertenece a la empresa del token.
func (uc *ReceiptUseCase) DownloadPurchasePDF(ctx context.Context, companyID, purchaseID string) ([]byte, string, error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: obtener compra: %w", err)
	}
	if purchase == nil {
		return nil, "", domain.ErrNotFound
	}

	company, branch, err := uc.resolveScope(companyID, purchase.BranchID)
	if err != nil {
		return nil, "", err
	}

	rawLines, err := uc.purchaseRepo.GetLines(purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: obtener líneas: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, ReceiptLine{
			ProductName: uc.productName(l.ProductID),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal,
		})
	}

	data := &ReceiptData{
		Kind:    "COMPRA",
		Number:  purchase.Number,
		Date:    purchase.Date.Format("02/01/2006"),
		Company: company,
		Branch:  branch,
		Lines:   lines,
		Total:   purchase.Total,
	}
	costs, err := uc.purchaseRepo.GetCosts(purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: obtener costos: %w", err)
	}
	for _, c := range costs {
		data.ExtraCosts = append(data.ExtraCosts, *c)
	}
	if purchase.PaymentID != nil {
		if payment, pErr := uc.paymentRepo.GetByID(*purchase.PaymentID); pErr == nil {
			data.Payment = payment
		}
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("compra_%d.pdf", purchase.Number), nil
}

// DownloadSalePDF genera el comprobante de una venta.
func (uc *ReceiptUseCase) DownloadSalePDF(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	company, branch, err := uc.resolveScope(companyID, sale.BranchID)
	if err != nil {
		return nil, "", err
	}

	rawLines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: obtener líneas: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, ReceiptLine{
			ProductName: uc.productName(l.ProductID),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}

	data := &ReceiptData{
		Kind:    "VENTA",
		Number:  sale.Number,
		Date:    sale.Date.Format("02/01/2006"),
		Company: company,
		Branch:  branch,
		Lines:   lines,
		Total:   sale.Total,
	}
	if payment, pErr := uc.paymentRepo.GetByID(sale.PaymentID); pErr == nil {
		data.Payment = payment
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("receipts: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%d.pdf", sale.Number), nil
}

// resolveScope valida que la sucursal del documento pertenece a la empresa del
// token y carga empresa + sucursal.
func (uc *ReceiptUseCase) resolveScope(companyID, branchID string) (*entity.Company, *entity.Branch, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, nil, fmt.Errorf("receipts: obtener sucursal: %w", err)
	}
	if branch == nil {
		return nil, nil, domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("receipts: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	return company, branch, nil
}

func (uc *ReceiptUseCase) productName(productID string) string {
	name := "Producto " + productID // fallback
	if product, err := uc.productRepo.GetByID(productID); err == nil && product != nil {
		name = product.Name
	}
	return name
}
