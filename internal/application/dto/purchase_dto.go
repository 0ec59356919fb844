package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest una línea de compra. El producto se referencia por uno de
// tres identificadores, con precedencia: ProductID > SupplierProductID > TempCode.
// TempCode crea el producto sobre la marcha; requiere TempName y usa UnitPrice
// como precio de costo inicial.
type PurchaseLineRequest struct {
	ProductID         string          `json:"product_id,omitempty"`
	SupplierProductID string          `json:"supplier_product_id,omitempty"`
	TempCode          string          `json:"temp_code,omitempty"`
	TempName          string          `json:"temp_name,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRate           decimal.Decimal `json:"tax_rate"` // fracción: 0.21 = 21%
}

// PurchaseCostRequest un costo adicional del documento.
type PurchaseCostRequest struct {
	Concept string          `json:"concept"`
	Amount  decimal.Decimal `json:"amount"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	BranchID   string                `json:"branch_id"`
	SupplierID string                `json:"supplier_id,omitempty"`
	Date       *time.Time            `json:"date,omitempty"`
	Lines      []PurchaseLineRequest `json:"lines"`
	Costs      []PurchaseCostRequest `json:"costs,omitempty"`
}

// RegisterPurchasePaymentRequest body para POST /api/purchases/:id/payment.
type RegisterPurchasePaymentRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

// BulkDeleteRequest body para la eliminación en lote de documentos.
// BranchID acota el alcance: si algún id no pertenece a la sucursal, el lote
// completo falla.
type BulkDeleteRequest struct {
	IDs      []string `json:"ids"`
	BranchID string   `json:"branch_id,omitempty"`
}

// PurchaseLineResponse una línea de compra resuelta.
type PurchaseLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	SupplierProductID *string         `json:"supplier_product_id,omitempty"`
	TempCode          *string         `json:"temp_code,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

// PurchaseCostResponse un costo adicional persistido.
type PurchaseCostResponse struct {
	ID      string          `json:"id"`
	Concept string          `json:"concept"`
	Amount  decimal.Decimal `json:"amount"`
}

// PurchaseResponse documento de compra con sus relaciones.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	BranchID   string                 `json:"branch_id"`
	Number     int64                  `json:"number"`
	Date       time.Time              `json:"date"`
	SupplierID *string                `json:"supplier_id,omitempty"`
	Status     string                 `json:"status"`
	PaymentID  *string                `json:"payment_id,omitempty"`
	Total      decimal.Decimal        `json:"total"`
	Lines      []PurchaseLineResponse `json:"lines"`
	Costs      []PurchaseCostResponse `json:"costs,omitempty"`
}
