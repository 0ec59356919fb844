package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// BranchRepository define el puerto del directorio de sucursales.
// Los incrementos de talonario son atómicos (UPDATE ... RETURNING): la fila de
// la sucursal queda bloqueada hasta el commit, serializando la numeración de
// documentos concurrentes de la misma sucursal.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error)
	IncrementPurchaseCounter(id string) (int64, error)
	IncrementSaleCounter(id string) (int64, error)
}
