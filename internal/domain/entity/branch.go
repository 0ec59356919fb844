package entity

import "time"

// Branch representa una sucursal: la unidad operativa dueña del stock de sus
// productos y de los talonarios (contadores de numeración) de compras y ventas.
// Los contadores son monotónicos: un número entregado nunca se reutiliza.
type Branch struct {
	ID              string
	CompanyID       string
	Name            string
	Address         string
	PurchaseCounter int64 // talonario de compras (último numero_compra emitido)
	SaleCounter     int64 // talonario de ventas (último numero_venta emitido)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
