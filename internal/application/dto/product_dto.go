package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// OpeningStock > 0 siembra el stock inicial y su movimiento de apertura.
type CreateProductRequest struct {
	BranchID     string          `json:"branch_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	OpeningStock int             `json:"opening_stock,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Solo los campos
// presentes (no nil) se actualizan; el stock nunca se toca por esta vía.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
}

// ProductResponse representación de un producto en la API.
type ProductResponse struct {
	ID           string          `json:"id"`
	BranchID     string          `json:"branch_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Stock        int             `json:"stock"`
	OpeningStock int             `json:"opening_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
