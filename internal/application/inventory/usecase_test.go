package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/inventory"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
)

func newLedgerUC(store *apptest.Store) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(
		apptest.NewTxRunner(store),
		apptest.NewProductRepo(store),
		apptest.NewBranchRepo(store),
		apptest.NewMovementRepo(store),
	)
}

// ── Ajustes manuales ──────────────────────────────────────────────────────────

func TestRegisterAdjustment_Positivo_MutaStockYRegistraEntrada(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	productID := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 10)
	uc := newLedgerUC(store)

	err := uc.RegisterAdjustment(context.Background(), companyID, "user-1", dto.RegisterAdjustmentRequest{
		ProductID:   productID,
		Quantity:    5,
		Description: "recuento físico",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, store.Products[productID].Stock)

	movs := store.MovementsFor(productID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[0].Type)
	assert.Equal(t, "recuento físico", movs[0].Description)
	assert.Equal(t, 5, movs[0].Quantity)
	require.NotNil(t, movs[0].ResultingStock)
	assert.Equal(t, 15, *movs[0].ResultingStock)
}

func TestRegisterAdjustment_Negativo_DescuentaStock(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	productID := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 10)
	uc := newLedgerUC(store)

	err := uc.RegisterAdjustment(context.Background(), companyID, "user-1", dto.RegisterAdjustmentRequest{
		ProductID: productID,
		Quantity:  -4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, store.Products[productID].Stock)

	movs := store.MovementsFor(productID)
	require.Len(t, movs, 1)
	assert.Equal(t, "ajuste manual", movs[0].Description, "descripción por defecto")
	assert.Equal(t, -4, movs[0].Quantity)
	require.NotNil(t, movs[0].ResultingStock)
	assert.Equal(t, 6, *movs[0].ResultingStock)
}

func TestRegisterAdjustment_SinStockSuficiente_NoDejaRastro(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	productID := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 3)
	uc := newLedgerUC(store)

	err := uc.RegisterAdjustment(context.Background(), companyID, "user-1", dto.RegisterAdjustmentRequest{
		ProductID: productID,
		Quantity:  -10,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El rollback revierte todo: ni stock mutado ni entrada en el libro.
	assert.Equal(t, 3, store.Products[productID].Stock)
	assert.Empty(t, store.MovementsFor(productID))
}

func TestRegisterAdjustment_DeltaCero_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	productID := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 3)
	uc := newLedgerUC(store)

	err := uc.RegisterAdjustment(context.Background(), companyID, "user-1", dto.RegisterAdjustmentRequest{
		ProductID: productID,
		Quantity:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterAdjustment_ProductoDeOtraEmpresa_RetornaErrForbidden(t *testing.T) {
	store := apptest.NewStore()
	companyA := store.SeedCompany("Empresa A")
	companyB := store.SeedCompany("Empresa B")
	branchB := store.SeedBranch(companyB, "Local ajeno")
	productB := store.SeedProduct(branchB, "X-1", "Producto ajeno", 10)
	uc := newLedgerUC(store)

	err := uc.RegisterAdjustment(context.Background(), companyA, "user-1", dto.RegisterAdjustmentRequest{
		ProductID: productB,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ── Siembra de aperturas ──────────────────────────────────────────────────────

func TestSeedOpeningStock_DocumentaSinMutarStock(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	p1 := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 12)
	p2 := store.SeedProduct(branchID, "FID-001", "Fideos 500g", 8)
	uc := newLedgerUC(store)

	err := uc.SeedOpeningStock(context.Background(), companyID, "user-1", dto.OpeningStockSeedRequest{
		Items: []dto.OpeningStockItem{
			{ProductID: p1, Quantity: 12},
			{ProductID: p2, Quantity: 8},
		},
	})
	require.NoError(t, err)

	// La siembra documenta el nivel de apertura; el stock en mano no cambia.
	assert.Equal(t, 12, store.Products[p1].Stock)
	assert.Equal(t, 8, store.Products[p2].Stock)

	movs := store.MovementsFor(p1)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOpening, movs[0].Type)
	assert.Equal(t, 12, movs[0].Quantity)
	require.NotNil(t, movs[0].ResultingStock)
	assert.Equal(t, 12, *movs[0].ResultingStock)
}

func TestSeedOpeningStock_ItemInvalido_RetornaErrInvalidInput(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branchID := store.SeedBranch(companyID, "Local 1")
	p1 := store.SeedProduct(branchID, "ARR-001", "Arroz 1kg", 12)
	uc := newLedgerUC(store)

	err := uc.SeedOpeningStock(context.Background(), companyID, "user-1", dto.OpeningStockSeedRequest{
		Items: []dto.OpeningStockItem{{ProductID: p1, Quantity: -1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Movements)
}

// ── Consultas del libro ───────────────────────────────────────────────────────

func TestListByBranch_FiltraPorSucursal(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Almacén Don Pepe")
	branch1 := store.SeedBranch(companyID, "Local 1")
	branch2 := store.SeedBranch(companyID, "Local 2")
	p1 := store.SeedProduct(branch1, "ARR-001", "Arroz 1kg", 10)
	p2 := store.SeedProduct(branch2, "ARR-001", "Arroz 1kg", 10)
	uc := newLedgerUC(store)

	require.NoError(t, uc.RegisterAdjustment(context.Background(), companyID, "u", dto.RegisterAdjustmentRequest{ProductID: p1, Quantity: 2}))
	require.NoError(t, uc.RegisterAdjustment(context.Background(), companyID, "u", dto.RegisterAdjustmentRequest{ProductID: p2, Quantity: 3}))

	list, err := uc.ListByBranch(context.Background(), companyID, branch1, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p1, list[0].ProductID)

	todos, err := uc.ListByCompany(context.Background(), companyID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
