package receipts

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

// ReceiptLine es una línea de detalle enriquecida con el nombre del producto
// para su representación gráfica.
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptData datos ya resueltos del documento a renderizar.
type ReceiptData struct {
	Kind       string // "COMPRA" | "VENTA"
	Number     int64
	Date       string // ya formateada, dd/mm/aaaa
	Company    *entity.Company
	Branch     *entity.Branch
	Lines      []ReceiptLine
	ExtraCosts []entity.PurchaseCost // solo compras
	Payment    *entity.Payment       // nil si el documento no tiene pago
	Total      decimal.Decimal
}

// ReceiptPDFGenerator puerto de generación de PDFs de comprobantes.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}
