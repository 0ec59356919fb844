package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gestion-comercial/internal/application/auth"
	"github.com/tu-usuario/gestion-comercial/internal/application/branches"
	"github.com/tu-usuario/gestion-comercial/internal/application/companies"
	"github.com/tu-usuario/gestion-comercial/internal/application/inventory"
	"github.com/tu-usuario/gestion-comercial/internal/application/products"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/application/receipts"
	"github.com/tu-usuario/gestion-comercial/internal/application/sales"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *companies.CompanyUseCase
	BranchUC   *branches.BranchUseCase
	ProductUC  *products.ProductUseCase
	LedgerUC   *inventory.LedgerUseCase
	PurchaseUC *purchases.PurchaseUseCase
	SaleUC     *sales.SaleUseCase
	ReceiptUC  *receipts.ReceiptUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta de tenant previa al registro de usuarios)
	companiesGroup := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Log)
	companiesGroup.Get("/", companyHandler.List)
	companiesGroup.Post("/", companyHandler.Create)
	companiesGroup.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido; alta solo admin)
	branchesGroup := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC, deps.Log)
	branchesGroup.Post("/", RequireRole(entity.RoleAdmin), branchHandler.Create)
	branchesGroup.Get("/", branchHandler.List)
	branchesGroup.Get("/:id", branchHandler.GetByID)

	// Products (protegido)
	productsGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	productsGroup.Post("/", productHandler.Create)
	productsGroup.Get("/", productHandler.List)
	productsGroup.Get("/:id", productHandler.GetByID)
	productsGroup.Put("/:id", productHandler.Update)
	productsGroup.Post("/:id/deactivate", RequireRole(entity.RoleAdmin), productHandler.Deactivate)
	productsGroup.Post("/:id/activate", RequireRole(entity.RoleAdmin), productHandler.Activate)

	// Inventory (protegido; ajustes manuales solo admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.Log)
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin), inventoryHandler.RegisterAdjustment)
	invGroup.Post("/opening-stock", RequireRole(entity.RoleAdmin), inventoryHandler.SeedOpeningStock)
	invGroup.Get("/movements", inventoryHandler.ListByCompany)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListByProduct)
	invGroup.Get("/branches/:id/movements", inventoryHandler.ListByBranch)

	// Purchases (protegido; escritura admin o comprador, borrado solo admin)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.ReceiptUC, deps.Log)
	purchasesGroup.Post("/", RequireRole(entity.RoleAdmin, entity.RoleComprador), purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Post("/bulk-delete", RequireRole(entity.RoleAdmin), purchaseHandler.BulkDelete)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Post("/:id/payment", RequireRole(entity.RoleAdmin, entity.RoleComprador), purchaseHandler.RegisterPayment)
	purchasesGroup.Get("/:id/pdf", purchaseHandler.DownloadPDF)
	purchasesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), purchaseHandler.Delete)

	// Sales (protegido; escritura admin o vendedor, borrado solo admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC, deps.Log)
	salesGroup.Post("/", RequireRole(entity.RoleAdmin, entity.RoleVendedor), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/bulk-delete", RequireRole(entity.RoleAdmin), saleHandler.BulkDelete)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id/lines/:lineId", RequireRole(entity.RoleAdmin, entity.RoleVendedor), saleHandler.UpdateLine)
	salesGroup.Get("/:id/pdf", saleHandler.DownloadPDF)
	salesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), saleHandler.Delete)
}
