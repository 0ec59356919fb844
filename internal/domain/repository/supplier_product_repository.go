package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// SupplierProductRepository define el puerto del catálogo proveedor→producto.
type SupplierProductRepository interface {
	Create(relation *entity.SupplierProduct) error
	GetByID(id string) (*entity.SupplierProduct, error)
	ListByProduct(productID string) ([]*entity.SupplierProduct, error)
}
