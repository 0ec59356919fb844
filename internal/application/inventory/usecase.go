package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// LedgerUseCase opera sobre el libro de stock: ajustes manuales (con su
// mutación de stock emparejada), siembra masiva de aperturas y las consultas
// por producto, sucursal y empresa.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	movRepo     repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	movRepo repository.StockMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, branchRepo: branchRepo, movRepo: movRepo}
}

// RegisterAdjustment aplica un ajuste manual: muta el stock del producto y
// agrega la entrada ajuste_manual con snapshot del stock resultante, en una
// sola transacción. Un delta negativo mayor al stock actual falla con
// ErrInsufficientStock sin dejar rastro.
func (uc *LedgerUseCase) RegisterAdjustment(ctx context.Context, companyID, userID string, in dto.RegisterAdjustmentRequest) error {
	if in.ProductID == "" || in.Quantity == 0 {
		return domain.ErrInvalidInput
	}
	product, branch, err := uc.scopedProduct(companyID, in.ProductID)
	if err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.RunInventory(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var newStock int
		var err error
		if in.Quantity > 0 {
			newStock, err = productRepo.IncreaseStock(product.ID, in.Quantity)
		} else {
			newStock, err = productRepo.DecreaseStock(product.ID, -in.Quantity)
		}
		if err != nil {
			return err
		}
		desc := in.Description
		if desc == "" {
			desc = "ajuste manual"
		}
		return movRepo.Create(&entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			BranchID:       branch.ID,
			Type:           entity.MovementTypeAdjustment,
			Description:    desc,
			Quantity:       in.Quantity,
			ResultingStock: &newStock,
			CreatedAt:      now,
			CreatedBy:      userID,
		})
	})
}

// SeedOpeningStock siembra entradas de apertura en bloque para productos que ya
// registran stock_apertura pero aún no tienen su entrada en el libro (carga
// inicial/importación). No muta stock: documenta el nivel de apertura.
func (uc *LedgerUseCase) SeedOpeningStock(ctx context.Context, companyID, userID string, in dto.OpeningStockSeedRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	movements := make([]*entity.StockMovement, 0, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity < 0 {
			return domain.ErrInvalidInput
		}
		product, branch, err := uc.scopedProduct(companyID, item.ProductID)
		if err != nil {
			return err
		}
		snapshot := item.Quantity
		movements = append(movements, &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			BranchID:       branch.ID,
			Type:           entity.MovementTypeOpening,
			Description:    "stock de apertura",
			Quantity:       item.Quantity,
			ResultingStock: &snapshot,
			CreatedAt:      now,
			CreatedBy:      userID,
		})
	}
	return uc.movRepo.CreateBatch(movements)
}

// ListByProduct lista las entradas del libro de un producto.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, companyID, productID string, from, to *time.Time, limit, offset int) ([]*dto.MovementResponse, error) {
	if _, _, err := uc.scopedProduct(companyID, productID); err != nil {
		return nil, err
	}
	list, err := uc.movRepo.ListByProduct(productID, from, to, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListByBranch lista las entradas del libro de una sucursal.
func (uc *LedgerUseCase) ListByBranch(ctx context.Context, companyID, branchID string, from, to *time.Time, limit, offset int) ([]*dto.MovementResponse, error) {
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
	list, err := uc.movRepo.ListByBranch(branchID, from, to, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListByCompany lista las entradas del libro de todas las sucursales de la
// empresa (resolución sucursal→empresa en el adaptador).
func (uc *LedgerUseCase) ListByCompany(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*dto.MovementResponse, error) {
	list, err := uc.movRepo.ListByCompany(companyID, from, to, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

func (uc *LedgerUseCase) scopedProduct(companyID, productID string) (*entity.Product, *entity.Branch, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(product.BranchID)
	if err != nil {
		return nil, nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	return product, branch, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

func toMovementResponses(list []*entity.StockMovement) []*dto.MovementResponse {
	out := make([]*dto.MovementResponse, len(list))
	for i, m := range list {
		out[i] = &dto.MovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			BranchID:       m.BranchID,
			Type:           m.Type,
			Description:    m.Description,
			Quantity:       m.Quantity,
			ResultingStock: m.ResultingStock,
			DocumentID:     m.DocumentID,
			CreatedAt:      m.CreatedAt,
			CreatedBy:      m.CreatedBy,
		}
	}
	return out
}
