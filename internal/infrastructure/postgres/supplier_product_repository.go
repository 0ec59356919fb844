package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

var _ repository.SupplierProductRepository = (*SupplierProductRepo)(nil)

// SupplierProductRepo implementación del catálogo proveedor→producto sobre PostgreSQL.
type SupplierProductRepo struct {
	q Querier
}

func NewSupplierProductRepository(q Querier) *SupplierProductRepo {
	return &SupplierProductRepo{q: q}
}

// Create inserta una relación de catálogo. Devuelve ErrDuplicate si el par
// proveedor-producto ya existe.
func (r *SupplierProductRepo) Create(relation *entity.SupplierProduct) error {
	if relation.ID == "" {
		relation.ID = uuid.New().String()
	}
	query := `
		INSERT INTO supplier_products (id, supplier_id, product_id, supplier_price, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	_, err := r.q.Exec(context.Background(), query,
		relation.ID, relation.SupplierID, relation.ProductID, relation.SupplierPrice)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supplier product: %w", err)
	}
	return nil
}

// GetByID obtiene una relación por ID. Devuelve (nil, nil) si no existe.
func (r *SupplierProductRepo) GetByID(id string) (*entity.SupplierProduct, error) {
	query := `SELECT id, supplier_id, product_id, supplier_price, created_at
		FROM supplier_products WHERE id = $1`
	var sp entity.SupplierProduct
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&sp.ID, &sp.SupplierID, &sp.ProductID, &sp.SupplierPrice, &sp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier product: %w", err)
	}
	return &sp, nil
}

// ListByProduct lista los proveedores que catalogan un producto.
func (r *SupplierProductRepo) ListByProduct(productID string) ([]*entity.SupplierProduct, error) {
	query := `SELECT id, supplier_id, product_id, supplier_price, created_at
		FROM supplier_products WHERE product_id = $1`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list supplier products: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierProduct
	for rows.Next() {
		var sp entity.SupplierProduct
		if err := rows.Scan(&sp.ID, &sp.SupplierID, &sp.ProductID,
			&sp.SupplierPrice, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier product: %w", err)
		}
		list = append(list, &sp)
	}
	return list, rows.Err()
}
