package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa un documento de venta de una sucursal. A diferencia de la
// compra, el pago no es opcional: toda venta nace con exactamente un Payment.
type Sale struct {
	ID         string
	BranchID   string
	Number     int64 // numero_venta, secuencial por sucursal
	Date       time.Time
	CustomerID *string
	PaymentID  string // obligatorio, creado junto con el documento
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleLine es una línea (detalle) de venta; referencia al producto siempre por id directo.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
