package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeOpening    = "apertura"      // stock inicial al crear el producto
	MovementTypePurchase   = "compra"        // entrada por línea de compra
	MovementTypeSale       = "venta"         // salida por línea de venta
	MovementTypeAdjustment = "ajuste_manual" // ajuste de operador o reverso por anulación
)

// StockMovement es una entrada inmutable del libro de stock: registra cada
// cambio de stock de un producto con su delta firmado. Nunca se actualiza;
// solo se agrega, o se elimina administrativamente junto con su documento padre.
//
// ResultingStock lleva el stock resultante como snapshot en aperturas y ajustes;
// en movimientos ligados a documentos (compra/venta) va en nil: son registrales,
// la mutación de stock la aplicó el procesador de línea.
type StockMovement struct {
	ID             string
	ProductID      string
	BranchID       string
	Type           string // ver constantes MovementType*
	Description    string
	Quantity       int     // delta firmado: positivo entrada, negativo salida
	ResultingStock *int    // snapshot del stock resultante; nil en movimientos registrales
	DocumentID     *string // compra o venta que originó el movimiento, si aplica
	CreatedAt      time.Time
	CreatedBy      string // UserID
}
