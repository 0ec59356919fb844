package products

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ProductUseCase casos de uso del registro de productos: alta con stock de
// apertura, actualización explícita por campos, activación/desactivación con
// guarda de stock, y listado con búsqueda normalizada.
type ProductUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, branchRepo: branchRepo}
}

// CreateProduct crea un producto en una sucursal. Si OpeningStock > 0, el stock
// inicial y su movimiento de apertura (con snapshot) se siembran en la misma
// transacción: el invariante mutación↔movimiento vale desde el nacimiento.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, companyID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.BranchID == "" || in.Code == "" || in.Name == "" || in.OpeningStock < 0 {
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
	if existing, _ := uc.productRepo.GetByBranchAndCode(in.BranchID, in.Code); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		BranchID:     in.BranchID,
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		Stock:        in.OpeningStock,
		OpeningStock: in.OpeningStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunProducts(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.OpeningStock == 0 {
			return nil
		}
		snapshot := in.OpeningStock
		return movRepo.Create(&entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			BranchID:       product.BranchID,
			Type:           entity.MovementTypeOpening,
			Description:    "stock de apertura",
			Quantity:       in.OpeningStock,
			ResultingStock: &snapshot,
			CreatedAt:      now,
			CreatedBy:      userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct devuelve un producto validando que su sucursal pertenezca a la empresa.
func (uc *ProductUseCase) GetProduct(ctx context.Context, companyID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.scopedProduct(companyID, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateProduct actualiza solo los campos presentes del request. El stock no se
// toca por esta vía: toda mutación de stock pasa por los procesadores de línea
// o por ajustes manuales.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, companyID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.scopedProduct(companyID, productID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// DeactivateProduct desactiva un producto. Rechaza con ErrInvalidStateTransition
// si todavía tiene stock en mano.
func (uc *ProductUseCase) DeactivateProduct(ctx context.Context, companyID, productID string) error {
	product, err := uc.scopedProduct(companyID, productID)
	if err != nil {
		return err
	}
	if product.Stock > 0 {
		return domain.ErrInvalidStateTransition
	}
	return uc.productRepo.SetActive(productID, false)
}

// ActivateProduct reactiva un producto desactivado.
func (uc *ProductUseCase) ActivateProduct(ctx context.Context, companyID, productID string) error {
	if _, err := uc.scopedProduct(companyID, productID); err != nil {
		return err
	}
	return uc.productRepo.SetActive(productID, true)
}

// ListProducts lista los productos de una sucursal. El término de búsqueda se
// normaliza (minúsculas, sin acentos) porque los nombres en español llevan tildes.
func (uc *ProductUseCase) ListProducts(ctx context.Context, companyID, branchID, search string, limit, offset int) ([]*dto.ProductResponse, error) {
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
	list, err := uc.productRepo.ListByBranch(branchID, NormalizeSearch(search), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, len(list))
	for i, p := range list {
		out[i] = toProductResponse(p)
	}
	return out, nil
}

func (uc *ProductUseCase) scopedProduct(companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(product.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// NormalizeSearch pasa el término a minúsculas y elimina marcas diacríticas
// (café → cafe) para que la búsqueda no dependa de cómo tipeó el usuario.
func NormalizeSearch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		BranchID:     p.BranchID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		Stock:        p.Stock,
		OpeningStock: p.OpeningStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
