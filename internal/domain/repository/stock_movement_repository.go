package repository

import (
	"time"

	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de stock (append-only).
// No existe operación de actualización: las entradas solo se agregan, o se
// eliminan administrativamente cuando se elimina su documento padre.
// Create rechaza snapshots de stock resultante negativos como chequeo de
// integridad; el resto de las reglas de negocio las valida el caller.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// CreateBatch siembra entradas en bloque (apertura de stock masiva).
	CreateBatch(movements []*entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByBranches(branchIDs []string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByCompany resuelve sucursal→empresa vía la propiedad de la sucursal.
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	DeleteByDocument(documentID string) error
}
