package dto

import "time"

// RegisterAdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity es el delta firmado: positivo entra stock, negativo sale.
type RegisterAdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// MovementResponse representación de una entrada del libro de stock.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	BranchID       string    `json:"branch_id"`
	Type           string    `json:"type"`
	Description    string    `json:"description,omitempty"`
	Quantity       int       `json:"quantity"`
	ResultingStock *int      `json:"resulting_stock,omitempty"`
	DocumentID     *string   `json:"document_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by,omitempty"`
}

// OpeningStockSeedRequest body para la siembra masiva de stock de apertura.
type OpeningStockSeedRequest struct {
	Items []OpeningStockItem `json:"items"`
}

// OpeningStockItem un producto a sembrar con su cantidad de apertura.
type OpeningStockItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
