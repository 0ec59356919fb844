package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de una sucursal. Code es único por sucursal.
// Stock es la cantidad en mano actual; toda mutación de Stock debe pasar por el
// registro de productos (nunca escritura directa) para que quede emparejada con
// un StockMovement. OpeningStock (stock_apertura) es el marcador histórico de
// apertura y no cambia después de la creación.
type Product struct {
	ID           string
	BranchID     string
	Code         string
	Name         string
	Description  string
	CostPrice    decimal.Decimal // precio de costo
	SalePrice    decimal.Decimal // precio de venta
	Stock        int             // cantidad en mano, >= 0 mientras esté activo
	OpeningStock int             // stock_apertura, inmutable
	Active       bool            // estado; no puede desactivarse con Stock > 0
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
