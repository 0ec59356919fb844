package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/application/sales"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

func newSaleUC(store *apptest.Store) *sales.SaleUseCase {
	return sales.NewSaleUseCase(
		apptest.NewTxRunner(store),
		apptest.NewSaleRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
	)
}

func purchasesUC(store *apptest.Store) *purchases.PurchaseUseCase {
	return purchases.NewPurchaseUseCase(
		apptest.NewTxRunner(store),
		apptest.NewPurchaseRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewSupplierProductRepo(store),
	)
}

func crearVenta(t *testing.T, uc *sales.SaleUseCase, companyID, branchID, productID string, qty int, price int64) *dto.SaleResponse {
	t.Helper()
	resp, err := uc.CreateSale(context.Background(), companyID, "user-1", dto.CreateSaleRequest{
		BranchID: branchID,
		Lines:    []dto.SaleLineRequest{{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}},
		Payment:  dto.SalePaymentRequest{Method: "efectivo"},
	})
	require.NoError(t, err)
	return resp
}

// ── Creación del documento ────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYCreaPago(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	resp := crearVenta(t, uc, companyID, branchID, productID, 5, 300)

	assert.Equal(t, int64(1), resp.Number)
	assert.True(t, decimal.NewFromInt(1500).Equal(resp.Total))
	assert.Equal(t, 15, store.Products[productID].Stock)

	// El pago nace junto con el documento, por el total.
	require.NotEmpty(t, resp.PaymentID)
	payment := store.Payments[resp.PaymentID]
	assert.Equal(t, "efectivo", payment.Method)
	assert.True(t, decimal.NewFromInt(1500).Equal(payment.Amount))

	// El libro registra la venta: delta negativo, documento ligado, sin snapshot.
	movs := store.MovementsFor(productID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].Type)
	assert.Equal(t, "venta N° 1", movs[0].Description)
	assert.Equal(t, -5, movs[0].Quantity)
	assert.Nil(t, movs[0].ResultingStock)
	require.NotNil(t, movs[0].DocumentID)
	assert.Equal(t, resp.ID, *movs[0].DocumentID)
}

func TestCreateSale_SinStockSuficiente_RollbackCompleto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	p1 := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	p2 := store.SeedProduct(branchID, "ALF-001", "Alfajor", 5)
	uc := newSaleUC(store)

	// La segunda línea pide más de lo que hay: la transacción completa se
	// revierte, incluida la primera línea ya aplicada y el número reservado.
	_, err := uc.CreateSale(context.Background(), companyID, "u", dto.CreateSaleRequest{
		BranchID: branchID,
		Lines: []dto.SaleLineRequest{
			{ProductID: p1, Quantity: 3, UnitPrice: decimal.NewFromInt(300)},
			{ProductID: p2, Quantity: 10, UnitPrice: decimal.NewFromInt(200)},
		},
		Payment: dto.SalePaymentRequest{Method: "efectivo"},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 20, store.Products[p1].Stock)
	assert.Equal(t, 5, store.Products[p2].Stock)
	assert.Empty(t, store.Sales)
	assert.Empty(t, store.SaleLines)
	assert.Empty(t, store.Payments)
	assert.Empty(t, store.Movements)
	assert.Equal(t, int64(0), store.Branches[branchID].SaleCounter, "el número vuelve al talonario")

	// Una venta posterior toma el número 1: la falla no dejó hueco.
	resp := crearVenta(t, uc, companyID, branchID, p1, 1, 300)
	assert.Equal(t, int64(1), resp.Number)
}

func TestCreateSale_SinMetodoDePago_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	_, err := uc.CreateSale(context.Background(), companyID, "u", dto.CreateSaleRequest{
		BranchID: branchID,
		Lines:    []dto.SaleLineRequest{{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(300)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_LineaSinProducto_RetornaErrAmbiguousProductRef(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	uc := newSaleUC(store)

	_, err := uc.CreateSale(context.Background(), companyID, "u", dto.CreateSaleRequest{
		BranchID: branchID,
		Lines:    []dto.SaleLineRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(300)}},
		Payment:  dto.SalePaymentRequest{Method: "efectivo"},
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguousProductRef)
}

// ── Actualización de líneas ───────────────────────────────────────────────────

func TestUpdateSaleLine_CambioDeCantidad_AplicaSoloLaDiferencia(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	created := crearVenta(t, uc, companyID, branchID, productID, 5, 300)
	require.Len(t, created.Lines, 1)

	nuevaCantidad := 8
	resp, err := uc.UpdateSaleLine(context.Background(), companyID, "u", created.ID, created.Lines[0].ID, dto.UpdateSaleLineRequest{
		Quantity: &nuevaCantidad,
	})
	require.NoError(t, err)

	// Solo la diferencia (3) tocó el stock: 20 - 5 - 3 = 12.
	assert.Equal(t, 12, store.Products[productID].Stock)
	assert.Equal(t, 8, resp.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(2400).Equal(resp.Total))

	// La corrección queda en el libro con el delta de la diferencia.
	movs := store.MovementsFor(productID)
	require.Len(t, movs, 2)
	assert.Equal(t, "corrección venta N° 1", movs[1].Description)
	assert.Equal(t, -3, movs[1].Quantity)

	// Invariante: suma de deltas == stock consumido (-8 en total).
	assert.Equal(t, -8, store.LedgerSum(productID))
}

func TestUpdateSaleLine_ReducirCantidad_DevuelveStock(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	created := crearVenta(t, uc, companyID, branchID, productID, 5, 300)

	nuevaCantidad := 2
	_, err := uc.UpdateSaleLine(context.Background(), companyID, "u", created.ID, created.Lines[0].ID, dto.UpdateSaleLineRequest{
		Quantity: &nuevaCantidad,
	})
	require.NoError(t, err)
	assert.Equal(t, 18, store.Products[productID].Stock)
	assert.Equal(t, -2, store.LedgerSum(productID))
}

func TestUpdateSaleLine_CambioDeProducto_AcreditaYDebita(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	p1 := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	p2 := store.SeedProduct(branchID, "AGU-001", "Agua 500ml", 10)
	uc := newSaleUC(store)

	created := crearVenta(t, uc, companyID, branchID, p1, 5, 300)

	nuevaCantidad := 4
	resp, err := uc.UpdateSaleLine(context.Background(), companyID, "u", created.ID, created.Lines[0].ID, dto.UpdateSaleLineRequest{
		ProductID: &p2,
		Quantity:  &nuevaCantidad,
	})
	require.NoError(t, err)

	// El producto anterior recupera todo lo vendido; el nuevo se debita completo.
	assert.Equal(t, 20, store.Products[p1].Stock)
	assert.Equal(t, 6, store.Products[p2].Stock)
	assert.Equal(t, p2, resp.Lines[0].ProductID)

	movsP1 := store.MovementsFor(p1)
	require.Len(t, movsP1, 2)
	assert.Equal(t, entity.MovementTypeAdjustment, movsP1[1].Type)
	assert.Equal(t, "cambio de producto en venta N° 1", movsP1[1].Description)
	assert.Equal(t, 5, movsP1[1].Quantity)
	require.NotNil(t, movsP1[1].ResultingStock)
	assert.Equal(t, 20, *movsP1[1].ResultingStock)

	movsP2 := store.MovementsFor(p2)
	require.Len(t, movsP2, 1)
	assert.Equal(t, entity.MovementTypeSale, movsP2[0].Type)
	assert.Equal(t, -4, movsP2[0].Quantity)

	// El libro cierra para ambos productos.
	assert.Equal(t, 0, store.LedgerSum(p1))
	assert.Equal(t, -4, store.LedgerSum(p2))
}

func TestUpdateSaleLine_DiferenciaMayorAlStock_Rollback(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 6)
	uc := newSaleUC(store)

	created := crearVenta(t, uc, companyID, branchID, productID, 5, 300)
	assert.Equal(t, 1, store.Products[productID].Stock)

	nuevaCantidad := 10 // la diferencia (5) supera el stock restante (1)
	_, err := uc.UpdateSaleLine(context.Background(), companyID, "u", created.ID, created.Lines[0].ID, dto.UpdateSaleLineRequest{
		Quantity: &nuevaCantidad,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, store.Products[productID].Stock)
	assert.Equal(t, 5, store.SaleLines[created.Lines[0].ID].Quantity, "la línea no cambió")
}

// ── Eliminación con reverso compensatorio ─────────────────────────────────────

func TestDeleteSale_DevuelveStockYEliminaPago(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	productID := store.SeedProduct(branchID, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	created := crearVenta(t, uc, companyID, branchID, productID, 5, 300)
	assert.Equal(t, 15, store.Products[productID].Stock)

	require.NoError(t, uc.DeleteSale(context.Background(), companyID, "u", created.ID))

	assert.Equal(t, 20, store.Products[productID].Stock)
	assert.Empty(t, store.Sales)
	assert.Empty(t, store.SaleLines)
	assert.Empty(t, store.Payments, "el pago se elimina con el documento")

	movs := store.MovementsFor(productID)
	require.Len(t, movs, 2)
	reverso := movs[1]
	assert.Equal(t, entity.MovementTypeAdjustment, reverso.Type)
	assert.Equal(t, "anulación venta N° 1", reverso.Description)
	assert.Equal(t, 5, reverso.Quantity)
	require.NotNil(t, reverso.ResultingStock)
	assert.Equal(t, 20, *reverso.ResultingStock)

	// Suma neta cero: la venta y su reverso se cancelan en el libro.
	assert.Equal(t, 0, store.LedgerSum(productID))
}

func TestBulkDeleteSales_IdDeOtraEmpresa_AbortaElLote(t *testing.T) {
	store := apptest.NewStore()
	companyA := store.SeedCompany("Kiosco 24")
	companyB := store.SeedCompany("Otro kiosco")
	branchA := store.SeedBranch(companyA, "Local A")
	branchB := store.SeedBranch(companyB, "Local B")
	pA := store.SeedProduct(branchA, "GAS-001", "Gaseosa 500ml", 20)
	pB := store.SeedProduct(branchB, "GAS-001", "Gaseosa 500ml", 20)
	uc := newSaleUC(store)

	ventaA := crearVenta(t, uc, companyA, branchA, pA, 2, 300)
	ventaB := crearVenta(t, uc, companyB, branchB, pB, 2, 300)

	err := uc.BulkDeleteSales(context.Background(), companyA, "u", []string{ventaA.ID, ventaB.ID}, "")
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.Len(t, store.Sales, 2, "el lote completo se aborta sin mutar nada")
	assert.Equal(t, 18, store.Products[pA].Stock)
}

// ── Escenario completo del libro ──────────────────────────────────────────────

// El historial de un producto a través de compra, venta y anulación: el stock
// en mano siempre coincide con la suma de los deltas del libro.
func TestLedger_EscenarioCompleto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Kiosco 24")
	branchID := store.SeedBranch(companyID, "Local único")
	uc := newSaleUC(store)
	ucCompras := purchasesUC(store)

	// Compra inicial: +20.
	compra, err := ucCompras.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines: []dto.PurchaseLineRequest{
			{TempCode: "GAS-001", TempName: "Gaseosa 500ml", Quantity: 20, UnitPrice: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)
	productID := compra.Lines[0].ProductID
	assert.Equal(t, 20, store.Products[productID].Stock)

	// Venta: -5.
	venta := crearVenta(t, uc, companyID, branchID, productID, 5, 300)
	assert.Equal(t, 15, store.Products[productID].Stock)

	// Anulación de la venta: +5 de vuelta.
	require.NoError(t, uc.DeleteSale(context.Background(), companyID, "u", venta.ID))
	assert.Equal(t, 20, store.Products[productID].Stock)

	// Tres entradas en el libro (+20, -5, +5) que suman el stock en mano.
	movs := store.MovementsFor(productID)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, entity.MovementTypeSale, movs[1].Type)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[2].Type)
	assert.Equal(t, store.Products[productID].Stock, store.LedgerSum(productID))
}
