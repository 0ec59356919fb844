package products_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/products"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

func newProductUC(store *apptest.Store) *products.ProductUseCase {
	return products.NewProductUseCase(
		apptest.NewTxRunner(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
	)
}

// ── Alta con stock de apertura ────────────────────────────────────────────────

func TestCreateProduct_ConApertura_SiembraStockYMovimiento(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	uc := newProductUC(store)

	resp, err := uc.CreateProduct(context.Background(), companyID, "user-1", dto.CreateProductRequest{
		BranchID:     branchID,
		Code:         "TOR-001",
		Name:         "Tornillo 3/8",
		CostPrice:    decimal.NewFromInt(100),
		SalePrice:    decimal.NewFromInt(150),
		OpeningStock: 25,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 25, resp.Stock)
	assert.Equal(t, 25, resp.OpeningStock)
	assert.True(t, resp.Active)

	// El libro nace junto con el producto: una entrada apertura con snapshot.
	movs := store.MovementsFor(resp.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOpening, movs[0].Type)
	assert.Equal(t, "stock de apertura", movs[0].Description)
	assert.Equal(t, 25, movs[0].Quantity)
	require.NotNil(t, movs[0].ResultingStock)
	assert.Equal(t, 25, *movs[0].ResultingStock)
	assert.Nil(t, movs[0].DocumentID)

	// Invariante: stock en mano == suma de deltas del libro.
	assert.Equal(t, 25, store.LedgerSum(resp.ID))
}

func TestCreateProduct_SinApertura_NoRegistraMovimiento(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	uc := newProductUC(store)

	resp, err := uc.CreateProduct(context.Background(), companyID, "user-1", dto.CreateProductRequest{
		BranchID: branchID,
		Code:     "TOR-002",
		Name:     "Tornillo 1/2",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
	assert.Empty(t, store.MovementsFor(resp.ID))
}

func TestCreateProduct_CodigoDuplicado_RetornaErrDuplicate(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	store.SeedProduct(branchID, "TOR-001", "Tornillo 3/8", 0)
	uc := newProductUC(store)

	_, err := uc.CreateProduct(context.Background(), companyID, "user-1", dto.CreateProductRequest{
		BranchID: branchID,
		Code:     "TOR-001",
		Name:     "Otro tornillo",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_SucursalDeOtraEmpresa_RetornaErrForbidden(t *testing.T) {
	store := apptest.NewStore()
	companyA := store.SeedCompany("Empresa A")
	companyB := store.SeedCompany("Empresa B")
	branchB := store.SeedBranch(companyB, "Sucursal ajena")
	uc := newProductUC(store)

	_, err := uc.CreateProduct(context.Background(), companyA, "user-1", dto.CreateProductRequest{
		BranchID: branchB,
		Code:     "X-1",
		Name:     "Producto",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ── Desactivación con guarda de stock ─────────────────────────────────────────

func TestDeactivateProduct_ConStock_RetornaErrInvalidStateTransition(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	productID := store.SeedProduct(branchID, "TOR-001", "Tornillo 3/8", 10)
	uc := newProductUC(store)

	err := uc.DeactivateProduct(context.Background(), companyID, productID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.True(t, store.Products[productID].Active, "el producto debe seguir activo")
}

func TestDeactivateProduct_SinStock_Desactiva(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	productID := store.SeedProduct(branchID, "TOR-001", "Tornillo 3/8", 0)
	uc := newProductUC(store)

	require.NoError(t, uc.DeactivateProduct(context.Background(), companyID, productID))
	assert.False(t, store.Products[productID].Active)

	require.NoError(t, uc.ActivateProduct(context.Background(), companyID, productID))
	assert.True(t, store.Products[productID].Active)
}

// ── Actualización por campos ──────────────────────────────────────────────────

func TestUpdateProduct_SoloCamposPresentes(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	productID := store.SeedProduct(branchID, "TOR-001", "Tornillo 3/8", 7)
	uc := newProductUC(store)

	nuevoNombre := "Tornillo 3/8 zincado"
	resp, err := uc.UpdateProduct(context.Background(), companyID, productID, dto.UpdateProductRequest{
		Name: &nuevoNombre,
	})
	require.NoError(t, err)
	assert.Equal(t, nuevoNombre, resp.Name)
	assert.Equal(t, 7, resp.Stock, "el stock nunca se toca por esta vía")
}

func TestUpdateProduct_NombreVacio_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Ferretería Central")
	branchID := store.SeedBranch(companyID, "Casa Matriz")
	productID := store.SeedProduct(branchID, "TOR-001", "Tornillo 3/8", 0)
	uc := newProductUC(store)

	vacio := ""
	_, err := uc.UpdateProduct(context.Background(), companyID, productID, dto.UpdateProductRequest{Name: &vacio})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Normalización de búsqueda ─────────────────────────────────────────────────

func TestNormalizeSearch(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"Café", "cafe"},
		{"  AZÚCAR  ", "azucar"},
		{"ñandú", "nandu"}, // la virgulilla también es marca diacrítica
		{"tornillo", "tornillo"},
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, products.NormalizeSearch(c.entrada), "entrada %q", c.entrada)
	}
}
