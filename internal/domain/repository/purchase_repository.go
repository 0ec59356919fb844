package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para documentos de compra.
// La política de claves foráneas del storage no cascadea: las líneas y costos se
// eliminan con sentencias explícitas antes de eliminar la cabecera.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	CreateCost(cost *entity.PurchaseCost) error
	GetByID(id string) (*entity.Purchase, error)
	GetLines(purchaseID string) ([]*entity.PurchaseLine, error)
	GetCosts(purchaseID string) ([]*entity.PurchaseCost, error)
	ListByBranch(branchID string, limit, offset int) ([]*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	DeleteLines(purchaseID string) error
	DeleteCosts(purchaseID string) error
	Delete(id string) error
}
