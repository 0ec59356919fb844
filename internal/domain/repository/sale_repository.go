package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// SaleRepository define el puerto de persistencia para documentos de venta.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	GetLineByID(lineID string) (*entity.SaleLine, error)
	ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error)
	Update(sale *entity.Sale) error
	UpdateLine(line *entity.SaleLine) error
	DeleteLines(saleID string) error
	Delete(id string) error
}
