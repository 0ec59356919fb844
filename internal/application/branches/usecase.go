// Package branches administra las sucursales de una empresa y expone el estado
// de sus talonarios de numeración.
package branches

import (
	"context"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// BranchUseCase casos de uso del directorio de sucursales.
type BranchUseCase struct {
	branchRepo  repository.BranchRepository
	companyRepo repository.CompanyRepository
}

func NewBranchUseCase(branchRepo repository.BranchRepository, companyRepo repository.CompanyRepository) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo, companyRepo: companyRepo}
}

// CreateBranch crea una sucursal de la empresa del token, con talonarios en cero.
func (uc *BranchUseCase) CreateBranch(ctx context.Context, companyID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Address:   in.Address,
	}
	if err := uc.branchRepo.Create(branch); err != nil {
		return nil, err
	}
	created, err := uc.branchRepo.GetByID(branch.ID)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(created), nil
}

// GetBranch obtiene una sucursal, validando que pertenece a la empresa del token.
func (uc *BranchUseCase) GetBranch(ctx context.Context, companyID, branchID string) (*dto.BranchResponse, error) {
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
	return toBranchResponse(branch), nil
}

// ListBranches lista las sucursales de la empresa del token.
func (uc *BranchUseCase) ListBranches(ctx context.Context, companyID string, limit, offset int) ([]*dto.BranchResponse, error) {
	branches, err := uc.branchRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchResponse(b))
	}
	return out, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:              b.ID,
		CompanyID:       b.CompanyID,
		Name:            b.Name,
		Address:         b.Address,
		PurchaseCounter: b.PurchaseCounter,
		SaleCounter:     b.SaleCounter,
		CreatedAt:       b.CreatedAt,
	}
}
