package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierProduct es la relación de catálogo proveedor→producto: permite que una
// línea de compra referencie el producto vía el catálogo del proveedor, con el
// precio acordado con ese proveedor.
type SupplierProduct struct {
	ID            string
	SupplierID    string
	ProductID     string
	SupplierPrice decimal.Decimal
	CreatedAt     time.Time
}
