package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, branch_id, type, description, quantity, resulting_stock, document_id, created_at, created_by`

// StockMovementRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: no existe UPDATE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega una entrada inmutable. Chequeo de integridad: un snapshot de
// stock resultante negativo se rechaza; el resto de las reglas las valida el caller.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ResultingStock != nil && *movement.ResultingStock < 0 {
		return domain.ErrInvalidInput
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.BranchID, movement.Type,
		movement.Description, movement.Quantity, movement.ResultingStock,
		movement.DocumentID, movement.CreatedAt, nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// CreateBatch siembra entradas en bloque (apertura de stock masiva).
func (r *StockMovementRepo) CreateBatch(movements []*entity.StockMovement) error {
	for _, m := range movements {
		if err := r.Create(m); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.BranchID, &m.Type, &m.Description,
		&m.Quantity, &m.ResultingStock, &m.DocumentID, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// ListByProduct lista entradas de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`product_id = $1`, []any{productID}, from, to, limit, offset)
}

// ListByBranch lista entradas de una sucursal en un rango de fechas.
func (r *StockMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`branch_id = $1`, []any{branchID}, from, to, limit, offset)
}

// ListByBranches lista entradas de varias sucursales.
func (r *StockMovementRepo) ListByBranches(branchIDs []string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`branch_id = ANY($1)`, []any{branchIDs}, from, to, limit, offset)
}

// ListByCompany lista entradas de todas las sucursales de una empresa
// (resolución sucursal→empresa vía join con branches).
func (r *StockMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`branch_id IN (SELECT id FROM branches WHERE company_id = $1)`, []any{companyID}, from, to, limit, offset)
}

// DeleteByDocument elimina administrativamente las entradas de un documento.
// Única vía de borrado del libro; se usa cuando el documento padre desaparece.
func (r *StockMovementRepo) DeleteByDocument(documentID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_movements WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete stock movements by document: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) list(where string, args []any, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + where
	pos := len(args) + 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.BranchID, &m.Type, &m.Description,
			&m.Quantity, &m.ResultingStock, &m.DocumentID, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
