package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusPending = "PENDIENTE_PAGO"
	PurchaseStatusPaid    = "PAGADO"
)

// Purchase representa un documento de compra de una sucursal, con número
// secuencial por sucursal (numero_compra) tomado del talonario de la sucursal.
type Purchase struct {
	ID         string
	BranchID   string
	Number     int64 // numero_compra, secuencial por sucursal
	Date       time.Time
	SupplierID *string // contraparte opcional
	Status     string  // PENDIENTE_PAGO | PAGADO
	PaymentID  *string // a lo sumo un pago asociado
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseLine es una línea (detalle) de compra. Referencia al producto de una
// de tres formas: id directo, relación proveedor-producto, o código temporal de
// un producto creado sobre la marcha por el orquestador. ProductID queda siempre
// resuelto al persistir.
type PurchaseLine struct {
	ID                string
	PurchaseID        string
	ProductID         string
	SupplierProductID *string // relación de catálogo de proveedor usada, si aplica
	TempCode          *string // código temporal con el que se materializó el producto
	Quantity          int
	UnitPrice         decimal.Decimal
	TaxRate           decimal.Decimal // fracción: 0.21 = 21%
	TaxAmount         decimal.Decimal
	Subtotal          decimal.Decimal
}

// PurchaseCost es un costo adicional del documento (flete, aduana, etc.).
type PurchaseCost struct {
	ID         string
	PurchaseID string
	Concept    string
	Amount     decimal.Decimal
}
