package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de venta; el producto se referencia solo por id directo.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SalePaymentRequest el pago obligatorio de la venta (se crea junto con el documento).
type SalePaymentRequest struct {
	Method string `json:"method"`
	Notes  string `json:"notes,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	BranchID   string             `json:"branch_id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Date       *time.Time         `json:"date,omitempty"`
	Lines      []SaleLineRequest  `json:"lines"`
	Payment    SalePaymentRequest `json:"payment"`
}

// UpdateSaleLineRequest body para PUT /api/sales/:id/lines/:lineId.
// Tipo de actualización explícito por operación: solo estos campos pueden
// cambiar; los nil no se tocan.
type UpdateSaleLineRequest struct {
	ProductID *string          `json:"product_id,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleLineResponse una línea de venta persistida.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse documento de venta con sus relaciones.
type SaleResponse struct {
	ID         string             `json:"id"`
	BranchID   string             `json:"branch_id"`
	Number     int64              `json:"number"`
	Date       time.Time          `json:"date"`
	CustomerID *string            `json:"customer_id,omitempty"`
	PaymentID  string             `json:"payment_id"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []SaleLineResponse `json:"lines"`
}
