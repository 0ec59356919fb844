package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, branch_id, code, name, description, cost_price, sale_price, stock, opening_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BranchID, product.Code, product.Name, product.Description,
		product.CostPrice, product.SalePrice, product.Stock, product.OpeningStock,
		product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByBranchAndCode obtiene un producto por código dentro de una sucursal.
func (r *ProductRepo) GetByBranchAndCode(branchID, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE branch_id = $1 AND code = $2`
	return r.scanOne(query, branchID, code)
}

// GetByBranchAndCodeForUpdate obtiene el producto por código bloqueando la fila
// (SELECT FOR UPDATE): dos requests concurrentes resolviendo el mismo código
// temporal no crean productos duplicados.
func (r *ProductRepo) GetByBranchAndCodeForUpdate(branchID, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE branch_id = $1 AND code = $2 FOR UPDATE`
	return r.scanOne(query, branchID, code)
}

// Update persiste los campos editables del producto (el stock no se toca por esta vía).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, cost_price = $4, sale_price = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.CostPrice, product.SalePrice, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive cambia el estado del producto. La guarda de stock > 0 la aplica el caso de uso.
func (r *ProductRepo) SetActive(id string, active bool) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncreaseStock suma qty al stock en una sola sentencia atómica y devuelve el
// stock resultante. La fila queda bloqueada hasta el commit de la tx.
func (r *ProductRepo) IncreaseStock(id string, qty int) (int, error) {
	var newStock int
	err := r.q.QueryRow(context.Background(),
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, qty,
	).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increase stock: %w", err)
	}
	return newStock, nil
}

// DecreaseStock resta qty del stock solo si alcanza (stock >= qty) y devuelve el
// stock resultante. Si no alcanza retorna ErrInsufficientStock sin mutar nada.
func (r *ProductRepo) DecreaseStock(id string, qty int) (int, error) {
	var newStock int
	err := r.q.QueryRow(context.Background(),
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2 RETURNING stock`,
		id, qty,
	).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Sin fila afectada: o el producto no existe, o el stock no alcanza.
			existing, err2 := r.GetByID(id)
			if err2 != nil {
				return 0, err2
			}
			if existing == nil {
				return 0, domain.ErrNotFound
			}
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("decrease stock: %w", err)
	}
	return newStock, nil
}

// ListByBranch lista productos de una sucursal; search filtra por código o
// nombre normalizado (unaccent en la columna generada search_name).
func (r *ProductRepo) ListByBranch(branchID, search string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if search != "" {
		query += fmt.Sprintf(" AND (code ILIKE $%d OR search_name LIKE $%d)", pos, pos)
		args = append(args, "%"+search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := scanProduct(r.q.QueryRow(context.Background(), query, args...), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *entity.Product) error {
	err := row.Scan(
		&p.ID, &p.BranchID, &p.Code, &p.Name, &p.Description,
		&p.CostPrice, &p.SalePrice, &p.Stock, &p.OpeningStock,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan product: %w", err)
	}
	return nil
}
