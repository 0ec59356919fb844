package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

func newPurchaseUC(store *apptest.Store) *purchases.PurchaseUseCase {
	return purchases.NewPurchaseUseCase(
		apptest.NewTxRunner(store),
		apptest.NewPurchaseRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewSupplierProductRepo(store),
	)
}

// ── Creación del documento ────────────────────────────────────────────────────

func TestCreatePurchase_LineaDirecta_SumaStockYRegistraCompra(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 10)
	uc := newPurchaseUC(store)

	resp, err := uc.CreatePurchase(context.Background(), companyID, "user-1", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: productID, Quantity: 20, UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromFloat(0.21)},
		},
		Costs: []dto.PurchaseCostRequest{
			{Concept: "flete", Amount: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Total = 20*100 + 21% de IVA + flete = 2000 + 420 + 300.
	assert.True(t, decimal.NewFromInt(2720).Equal(resp.Total), "total %s", resp.Total)
	assert.Equal(t, int64(1), resp.Number)
	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	require.Len(t, resp.Lines, 1)
	assert.True(t, decimal.NewFromInt(420).Equal(resp.Lines[0].TaxAmount))

	// La línea aplicó exactamente una mutación de stock.
	assert.Equal(t, 30, store.Products[productID].Stock)

	// El libro registra el movimiento compra: delta positivo, documento ligado,
	// sin snapshot (es registral, la mutación la aplicó el procesador de línea).
	movs := store.MovementsFor(productID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, "compra N° 1", movs[0].Description)
	assert.Equal(t, 20, movs[0].Quantity)
	assert.Nil(t, movs[0].ResultingStock)
	require.NotNil(t, movs[0].DocumentID)
	assert.Equal(t, resp.ID, *movs[0].DocumentID)
}

func TestCreatePurchase_NumeracionSecuencialPorSucursal(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	otraBranch := store.SeedBranch(companyID, "Depósito Norte")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 0)
	otroProducto := store.SeedProduct(otraBranch, "CEM-001", "Cemento 50kg", 0)
	uc := newPurchaseUC(store)

	crear := func(branch, product string) int64 {
		resp, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
			BranchID: branch,
			Lines:    []dto.PurchaseLineRequest{{ProductID: product, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		})
		require.NoError(t, err)
		return resp.Number
	}

	assert.Equal(t, int64(1), crear(branchID, productID))
	assert.Equal(t, int64(2), crear(branchID, productID))
	// Cada sucursal lleva su propio talonario.
	assert.Equal(t, int64(1), crear(otraBranch, otroProducto))
	assert.Equal(t, int64(3), crear(branchID, productID))
}

// ── Resolución de líneas ──────────────────────────────────────────────────────

func TestCreatePurchase_PrecedenciaIdDirectoSobreCodigoTemporal(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 0)
	uc := newPurchaseUC(store)

	// La línea trae id directo y código temporal a la vez: gana el id directo
	// y no se materializa ningún producto nuevo.
	resp, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: productID, TempCode: "NUEVO-1", TempName: "No debería crearse", Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, productID, resp.Lines[0].ProductID)
	assert.Len(t, store.Products, 1)
}

func TestCreatePurchase_LineaSinIdentificador_RetornaErrAmbiguousProductRef(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	uc := newPurchaseUC(store)

	_, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines:    []dto.PurchaseLineRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguousProductRef)
	assert.Equal(t, int64(0), store.Branches[branchID].PurchaseCounter, "no se reservó número")
}

func TestCreatePurchase_CodigoTemporalSinNombre_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	uc := newPurchaseUC(store)

	_, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines:    []dto.PurchaseLineRequest{{TempCode: "NUEVO-1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePurchase_ViaRelacionDeProveedor(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 0)
	relation := &entity.SupplierProduct{SupplierID: "prov-1", ProductID: productID, SupplierPrice: decimal.NewFromInt(95)}
	require.NoError(t, apptest.NewSupplierProductRepo(store).Create(relation))
	uc := newPurchaseUC(store)

	resp, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines: []dto.PurchaseLineRequest{
			{SupplierProductID: relation.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(95)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, productID, resp.Lines[0].ProductID)
	require.NotNil(t, resp.Lines[0].SupplierProductID)
	assert.Equal(t, relation.ID, *resp.Lines[0].SupplierProductID)
	assert.Equal(t, 3, store.Products[productID].Stock)
}

// ── Materialización por código temporal ───────────────────────────────────────

func TestCreatePurchase_CodigoTemporal_MaterializaProducto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	uc := newPurchaseUC(store)

	resp, err := uc.CreatePurchase(context.Background(), companyID, "user-1", dto.CreatePurchaseRequest{
		BranchID:   branchID,
		SupplierID: "prov-1",
		Lines: []dto.PurchaseLineRequest{
			{TempCode: "ARE-001", TempName: "Arena fina m3", Quantity: 15, UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	// El producto nace con stock 0 y el delta lo aplica el procesador de línea:
	// una sola mutación, el stock final es la cantidad comprada.
	repo := apptest.NewProductRepo(store)
	product, err := repo.GetByBranchAndCode(branchID, "ARE-001")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Arena fina m3", product.Name)
	assert.Equal(t, 15, product.Stock)
	assert.Equal(t, 15, product.OpeningStock)
	assert.True(t, decimal.NewFromInt(80).Equal(product.CostPrice))
	assert.True(t, product.Active)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, product.ID, resp.Lines[0].ProductID)
	require.NotNil(t, resp.Lines[0].TempCode)
	assert.Equal(t, "ARE-001", *resp.Lines[0].TempCode)

	// Con proveedor en el documento se crea la relación de catálogo.
	relations, err := apptest.NewSupplierProductRepo(store).ListByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, "prov-1", relations[0].SupplierID)

	// Invariante del libro: stock en mano == suma de deltas.
	assert.Equal(t, 15, store.LedgerSum(product.ID))
}

func TestCreatePurchase_CodigoTemporalExistente_ReusaProducto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "ARE-001", "Arena fina m3", 4)
	uc := newPurchaseUC(store)

	_, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines: []dto.PurchaseLineRequest{
			{TempCode: "ARE-001", TempName: "Arena fina m3", Quantity: 6, UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, store.Products, 1, "no se materializa un duplicado")
	assert.Equal(t, 10, store.Products[productID].Stock)
}

// ── Pago único ────────────────────────────────────────────────────────────────

func TestRegisterPayment_TransicionaAPagado(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 0)
	uc := newPurchaseUC(store)

	created, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines:    []dto.PurchaseLineRequest{{ProductID: productID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)

	resp, err := uc.RegisterPayment(context.Background(), companyID, created.ID, dto.RegisterPurchasePaymentRequest{
		Method: "transferencia",
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPaid, resp.Status)
	require.NotNil(t, resp.PaymentID)

	payment := store.Payments[*resp.PaymentID]
	assert.Equal(t, "transferencia", payment.Method)
	assert.True(t, decimal.NewFromInt(100).Equal(payment.Amount))

	// El documento admite un solo pago.
	_, err = uc.RegisterPayment(context.Background(), companyID, created.ID, dto.RegisterPurchasePaymentRequest{
		Method: "efectivo",
		Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadyExists)
}

func TestRegisterPayment_MontoNoPositivo_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	uc := newPurchaseUC(store)

	_, err := uc.RegisterPayment(context.Background(), companyID, "cualquiera", dto.RegisterPurchasePaymentRequest{
		Method: "efectivo",
		Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Eliminación con reverso compensatorio ─────────────────────────────────────

func TestDeletePurchase_RevierteStockYEliminaPago(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branchID := store.SeedBranch(companyID, "Depósito")
	productID := store.SeedProduct(branchID, "CEM-001", "Cemento 50kg", 10)
	uc := newPurchaseUC(store)

	created, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branchID,
		Lines:    []dto.PurchaseLineRequest{{ProductID: productID, Quantity: 8, UnitPrice: decimal.NewFromInt(50)}},
		Costs:    []dto.PurchaseCostRequest{{Concept: "flete", Amount: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	paid, err := uc.RegisterPayment(context.Background(), companyID, created.ID, dto.RegisterPurchasePaymentRequest{
		Method: "efectivo",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, 18, store.Products[productID].Stock)

	require.NoError(t, uc.DeletePurchase(context.Background(), companyID, "u", created.ID))

	// Stock de vuelta al nivel previo, documento y pago eliminados.
	assert.Equal(t, 10, store.Products[productID].Stock)
	assert.Empty(t, store.Purchases)
	assert.Empty(t, store.PurchaseLines)
	assert.Empty(t, store.PurchaseCosts)
	_, existe := store.Payments[*paid.PaymentID]
	assert.False(t, existe, "el pago asociado se elimina con el documento")

	// El reverso queda documentado: ajuste_manual con delta opuesto y snapshot.
	movs := store.MovementsFor(productID)
	require.Len(t, movs, 2)
	reverso := movs[1]
	assert.Equal(t, entity.MovementTypeAdjustment, reverso.Type)
	assert.Equal(t, "anulación compra N° 1", reverso.Description)
	assert.Equal(t, -8, reverso.Quantity)
	require.NotNil(t, reverso.ResultingStock)
	assert.Equal(t, 10, *reverso.ResultingStock)

	// Suma neta cero en el libro: la compra y su reverso se cancelan.
	assert.Equal(t, 0, store.LedgerSum(productID))
}

func TestBulkDeletePurchases_IdFueraDeAlcance_AbortaElLote(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Distribuidora Sur")
	branch1 := store.SeedBranch(companyID, "Depósito")
	branch2 := store.SeedBranch(companyID, "Depósito Norte")
	p1 := store.SeedProduct(branch1, "CEM-001", "Cemento 50kg", 0)
	p2 := store.SeedProduct(branch2, "CEM-001", "Cemento 50kg", 0)
	uc := newPurchaseUC(store)

	c1, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branch1,
		Lines:    []dto.PurchaseLineRequest{{ProductID: p1, Quantity: 5, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	c2, err := uc.CreatePurchase(context.Background(), companyID, "u", dto.CreatePurchaseRequest{
		BranchID: branch2,
		Lines:    []dto.PurchaseLineRequest{{ProductID: p2, Quantity: 5, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	// c2 pertenece a otra sucursal: el lote completo falla sin mutar nada.
	err = uc.BulkDeletePurchases(context.Background(), companyID, "u", []string{c1.ID, c2.ID}, branch1)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.Len(t, store.Purchases, 2)
	assert.Equal(t, 5, store.Products[p1].Stock)
	assert.Equal(t, 5, store.Products[p2].Stock)

	// Acotado correctamente, el lote de una sola sucursal sí procede.
	require.NoError(t, uc.BulkDeletePurchases(context.Background(), companyID, "u", []string{c1.ID}, branch1))
	assert.Len(t, store.Purchases, 1)
	assert.Equal(t, 0, store.Products[p1].Stock)
}
