package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, branch_id, number, date, supplier_id, status, payment_id, total, created_at, updated_at`

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera del documento de compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (id, branch_id, number, date, supplier_id, status, payment_id, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.BranchID, purchase.Number, purchase.Date,
		purchase.SupplierID, purchase.Status, purchase.PaymentID, purchase.Total)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de detalle con su producto ya resuelto.
func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, supplier_product_id, temp_code,
			quantity, unit_price, tax_rate, tax_amount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.ProductID, line.SupplierProductID, line.TempCode,
		line.Quantity, line.UnitPrice, line.TaxRate, line.TaxAmount, line.Subtotal)
	if err != nil {
		return fmt.Errorf("create purchase line: %w", err)
	}
	return nil
}

// CreateCost inserta un costo adicional del documento.
func (r *PurchaseRepo) CreateCost(cost *entity.PurchaseCost) error {
	if cost.ID == "" {
		cost.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_costs (id, purchase_id, concept, amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		cost.ID, cost.PurchaseID, cost.Concept, cost.Amount)
	if err != nil {
		return fmt.Errorf("create purchase cost: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID. Devuelve (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.BranchID, &p.Number, &p.Date, &p.SupplierID,
		&p.Status, &p.PaymentID, &p.Total, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetLines obtiene las líneas de detalle de un documento.
func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, product_id, supplier_product_id, temp_code,
			quantity, unit_price, tax_rate, tax_amount, subtotal
		FROM purchase_lines WHERE purchase_id = $1`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.SupplierProductID,
			&l.TempCode, &l.Quantity, &l.UnitPrice, &l.TaxRate, &l.TaxAmount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// GetCosts obtiene los costos adicionales de un documento.
func (r *PurchaseRepo) GetCosts(purchaseID string) ([]*entity.PurchaseCost, error) {
	query := `SELECT id, purchase_id, concept, amount FROM purchase_costs WHERE purchase_id = $1`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase costs: %w", err)
	}
	defer rows.Close()
	var costs []*entity.PurchaseCost
	for rows.Next() {
		var c entity.PurchaseCost
		if err := rows.Scan(&c.ID, &c.PurchaseID, &c.Concept, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase cost: %w", err)
		}
		costs = append(costs, &c)
	}
	return costs, rows.Err()
}

// ListByBranch lista los documentos de una sucursal, más recientes primero.
func (r *PurchaseRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE branch_id = $1 ORDER BY number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.BranchID, &p.Number, &p.Date, &p.SupplierID,
			&p.Status, &p.PaymentID, &p.Total, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update persiste los campos mutables de la cabecera (estado, pago, total).
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET supplier_id = $2, status = $3, payment_id = $4, total = $5, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Status, purchase.PaymentID, purchase.Total)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteLines elimina las líneas de un documento (las FK no cascadean).
func (r *PurchaseRepo) DeleteLines(purchaseID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	return nil
}

// DeleteCosts elimina los costos adicionales de un documento.
func (r *PurchaseRepo) DeleteCosts(purchaseID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_costs WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase costs: %w", err)
	}
	return nil
}

// Delete elimina la cabecera. Líneas y costos deben eliminarse antes.
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}
