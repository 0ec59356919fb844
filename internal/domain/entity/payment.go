package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment representa un pago asociado a un documento (compra o venta).
type Payment struct {
	ID        string
	Method    string // efectivo, transferencia, tarjeta, etc.
	Amount    decimal.Decimal
	Date      time.Time
	Notes     string
	CreatedAt time.Time
}
