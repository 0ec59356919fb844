package dto

import "time"

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// BranchResponse representación de una sucursal con sus talonarios.
type BranchResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	PurchaseCounter int64     `json:"purchase_counter"`
	SaleCounter     int64     `json:"sale_counter"`
	CreatedAt       time.Time `json:"created_at"`
}
