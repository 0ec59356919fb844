package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// CompanyRepository define el puerto del directorio de empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
