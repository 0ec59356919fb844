package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/gestion-comercial/internal/application/auth"
	"github.com/tu-usuario/gestion-comercial/internal/application/branches"
	"github.com/tu-usuario/gestion-comercial/internal/application/companies"
	"github.com/tu-usuario/gestion-comercial/internal/application/inventory"
	"github.com/tu-usuario/gestion-comercial/internal/application/products"
	"github.com/tu-usuario/gestion-comercial/internal/application/purchases"
	"github.com/tu-usuario/gestion-comercial/internal/application/receipts"
	"github.com/tu-usuario/gestion-comercial/internal/application/sales"
	infrapdf "github.com/tu-usuario/gestion-comercial/internal/infrastructure/pdf"
	"github.com/tu-usuario/gestion-comercial/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/gestion-comercial/internal/interfaces/http"
	"github.com/tu-usuario/gestion-comercial/pkg/config"
	"github.com/tu-usuario/gestion-comercial/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	supplierRepo := postgres.NewSupplierProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := companies.NewCompanyUseCase(companyRepo)
	branchUC := branches.NewBranchUseCase(branchRepo, companyRepo)
	productUC := products.NewProductUseCase(txRunner, productRepo, branchRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, branchRepo, movementRepo)
	purchaseUC := purchases.NewPurchaseUseCase(txRunner, purchaseRepo, productRepo, branchRepo, supplierRepo)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, productRepo, branchRepo)

	// PDF: comprobantes de compra y venta
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := receipts.NewReceiptUseCase(
		purchaseRepo, saleRepo, branchRepo, companyRepo, productRepo, paymentRepo, receiptGenerator,
	)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		BranchUC:   branchUC,
		ProductUC:  productUC,
		LedgerUC:   ledgerUC,
		PurchaseUC: purchaseUC,
		SaleUC:     saleUC,
		ReceiptUC:  receiptUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
