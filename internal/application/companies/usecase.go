// Package companies administra el directorio de empresas (tenants).
package companies

import (
	"context"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// CompanyUseCase casos de uso del directorio de empresas.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// CreateCompany registra una nueva empresa (tenant).
func (uc *CompanyUseCase) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	company := &entity.Company{
		ID:      uuid.New().String(),
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
		Status:  "active",
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	created, err := uc.companyRepo.GetByID(company.ID)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(created), nil
}

// GetCompany obtiene una empresa por ID.
func (uc *CompanyUseCase) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// ListCompanies lista empresas con paginación.
func (uc *CompanyUseCase) ListCompanies(ctx context.Context, limit, offset int) ([]*dto.CompanyResponse, error) {
	companies, err := uc.companyRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}
