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

var _ repository.BranchRepository = (*BranchRepo)(nil)

const branchColumns = `id, company_id, name, address, purchase_counter, sale_counter, created_at, updated_at`

// BranchRepo implementación de BranchRepository sobre PostgreSQL (usable con pool o tx).
type BranchRepo struct {
	q Querier
}

func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create inserta una sucursal con talonarios en cero.
func (r *BranchRepo) Create(branch *entity.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO branches (id, company_id, name, address, purchase_counter, sale_counter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, NOW(), NOW())`
	_, err := r.q.Exec(context.Background(), query,
		branch.ID, branch.CompanyID, branch.Name, branch.Address)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID. Devuelve (nil, nil) si no existe.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.CompanyID, &b.Name, &b.Address,
		&b.PurchaseCounter, &b.SaleCounter, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// ListByCompany lista las sucursales de una empresa.
func (r *BranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Address,
			&b.PurchaseCounter, &b.SaleCounter, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// IncrementPurchaseCounter avanza el talonario de compras y devuelve el número
// emitido. El UPDATE bloquea la fila hasta el commit: documentos concurrentes de
// la misma sucursal se numeran en serie, y un rollback libera el número sin salto.
func (r *BranchRepo) IncrementPurchaseCounter(id string) (int64, error) {
	return r.incrementCounter(id, "purchase_counter")
}

// IncrementSaleCounter avanza el talonario de ventas y devuelve el número emitido.
func (r *BranchRepo) IncrementSaleCounter(id string) (int64, error) {
	return r.incrementCounter(id, "sale_counter")
}

func (r *BranchRepo) incrementCounter(id, column string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE branches SET %s = %s + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, column, column, column)
	var number int64
	err := r.q.QueryRow(context.Background(), query, id).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return number, nil
}
