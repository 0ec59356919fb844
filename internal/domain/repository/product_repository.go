package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// IncreaseStock y DecreaseStock son aritmética pura de stock y devuelven el
// stock resultante; no registran movimiento (eso es responsabilidad del caller,
// para mantener una sola fuente de verdad del invariante mutación↔movimiento).
// DecreaseStock retorna domain.ErrInsufficientStock si la cantidad pedida
// supera el stock actual; el caller debe abortar la operación completa.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBranchAndCode(branchID, code string) (*entity.Product, error)
	// GetByBranchAndCodeForUpdate bloquea la fila (SELECT FOR UPDATE) para
	// resolver códigos temporales sin crear productos duplicados en concurrencia.
	GetByBranchAndCodeForUpdate(branchID, code string) (*entity.Product, error)
	Update(product *entity.Product) error
	SetActive(id string, active bool) error
	IncreaseStock(id string, qty int) (newStock int, err error)
	DecreaseStock(id string, qty int) (newStock int, err error)
	ListByBranch(branchID, search string, limit, offset int) ([]*entity.Product, error)
}
