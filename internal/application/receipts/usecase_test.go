package receipts_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/application/receipts"
	"github.com/tu-usuario/gestion-comercial/internal/application/sales"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
)

// stubGenerator captura el ReceiptData armado por el caso de uso y devuelve un
// PDF de mentira.
type stubGenerator struct {
	captured *receipts.ReceiptData
}

func (g *stubGenerator) GenerateReceiptPDF(_ context.Context, data *receipts.ReceiptData) ([]byte, error) {
	g.captured = data
	return []byte("%PDF-fake"), nil
}

func newReceiptUC(store *apptest.Store, gen receipts.ReceiptPDFGenerator) *receipts.ReceiptUseCase {
	return receipts.NewReceiptUseCase(
		apptest.NewPurchaseRepo(store),
		apptest.NewSaleRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewCompanyRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewPaymentRepo(store),
		gen,
	)
}

func TestDownloadPurchasePDF_ArmaComprobanteCompleto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 0)

	ucCompras := purchases.NewPurchaseUseCase(
		apptest.NewTxRunner(store),
		apptest.NewPurchaseRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewSupplierProductRepo(store),
	)
	created, err := ucCompras.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines:    []dto.PurchaseLineRequest{{ProductID: productID, Quantity: 4, UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromFloat(0.21)}},
		Costs:    []dto.PurchaseCostRequest{{Concept: "flete", Amount: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)
	_, err = ucCompras.RegisterPayment(context.Background(), companyID, created.ID, dto.RegisterPurchasePaymentRequest{
		Method: "transferencia",
		Amount: created.Total,
	})
	require.NoError(t, err)

	gen := &stubGenerator{}
	uc := newReceiptUC(store, gen)

	pdf, filename, err := uc.DownloadPurchasePDF(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "compra_1.pdf", filename)

	require.NotNil(t, gen.captured)
	data := gen.captured
	assert.Equal(t, "COMPRA", data.Kind)
	assert.Equal(t, int64(1), data.Number)
	assert.Equal(t, "Distribuidora Sur", data.Company.Name)
	assert.Equal(t, "Depósito", data.Branch.Name)
	require.Len(t, data.Lines, 1)
	assert.Equal(t, "Cemento 50kg", data.Lines[0].ProductName)
	require.Len(t, data.ExtraCosts, 1)
	assert.Equal(t, "flete", data.ExtraCosts[0].Concept)
	require.NotNil(t, data.Payment)
	assert.Equal(t, "transferencia", data.Payment.Method)
}

func TestDownloadSalePDF_IncluyePagoObligatorio(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 10)

	ucVentas := sales.NewSaleUseCase(
		apptest.NewTxRunner(store),
		apptest.NewSaleRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
	)
	created, err := ucVentas.CreateSale(context.Background(), companyID, "u", dto.CreateSaleRequest{
		BranchID: branchID,
		Lines:    []dto.SaleLineRequest{{ProductID: productID, Quantity: 2, UnitPrice: decimal.NewFromInt(300)}},
		Payment:  dto.SalePaymentRequest{Method: "efectivo"},
	})
	require.NoError(t, err)

	gen := &stubGenerator{}
	uc := newReceiptUC(store, gen)

	_, filename, err := uc.DownloadSalePDF(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "venta_1.pdf", filename)

	require.NotNil(t, gen.captured)
	assert.Equal(t, "VENTA", gen.captured.Kind)
	require.NotNil(t, gen.captured.Payment)
	assert.Equal(t, "efectivo", gen.captured.Payment.Method)
	assert.True(t, decimal.NewFromInt(600).Equal(gen.captured.Total))
}

func TestDownloadPurchasePDF_DocumentoDeOtraEmpresa_RetornaErrForbidden(t *testing.T) {
	store := apptest.NewStore()
	companyA := store.SeedCompany("Empresa A")
	companyB := store.SeedCompany("Empresa B")
	branchB := store.SeedBranch(companyB, "Depósito ajeno")
	productB := store.SeedProduct(branchB, "X-1", "Producto", 0)

	ucCompras := purchases.NewPurchaseUseCase(
		apptest.NewTxRunner(store),
		apptest.NewPurchaseRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewSupplierProductRepo(store),
	)
	created, err := ucCompras.CreatePurchase(context.Background(), companyB, "u", dto.CreatePurchaseRequest{
		BranchID: branchB,
		Lines:    []dto.PurchaseLineRequest{{ProductID: productB, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	uc := newReceiptUC(store, &stubGenerator{})
	_, _, err = uc.DownloadPurchasePDF(context.Background(), companyA, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
