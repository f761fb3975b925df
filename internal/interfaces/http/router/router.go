package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
)

// Handlers aggregates every handler the router mounts
type Handlers struct {
	Company         *handler.CompanyHandler
	Catalog         *handler.CatalogHandler
	Partner         *handler.PartnerHandler
	Invoice         *handler.InvoiceHandler
	Payment         *handler.PaymentHandler
	PaymentCallback *handler.PaymentCallbackHandler
	Stock           *handler.StockHandler
	Accounting      *handler.AccountingHandler
	Cart            *handler.CartHandler
}

// New builds the gin engine with middleware and all API routes mounted.
// Onboarding and gateway callbacks are public; everything else requires a
// valid bearer token.
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Public surface: tenant onboarding happens before any token exists,
	// and gateways authenticate webhook deliveries out of band.
	api.POST("/onboard", h.Company.Onboard)
	api.POST("/callbacks/payments", h.PaymentCallback.Handle)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.SkipPaths = append(jwtCfg.SkipPaths, "/api/v1/onboard")
	jwtCfg.Logger = log
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	companies := api.Group("/companies")
	{
		companies.GET("", h.Company.List)
		companies.GET("/current", h.Company.Get)
		companies.DELETE("/current", h.Company.Purge)
	}

	branches := api.Group("/branches")
	{
		branches.POST("", h.Company.CreateBranch)
		branches.GET("", h.Company.ListBranches)
		branches.DELETE("/:id", h.Company.DeleteBranch)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", h.Catalog.CreateCategory)
		categories.GET("", h.Catalog.ListCategories)
		categories.DELETE("/:id", h.Catalog.DeleteCategory)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Catalog.CreateProduct)
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.POST("/:id/items", h.Catalog.AddItem)
	}

	items := api.Group("/items")
	{
		items.PUT("/:id", h.Catalog.UpdateItem)
		items.DELETE("/:id", h.Catalog.DeleteItem)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Partner.CreateCustomer)
		customers.POST("/walk-in", h.Partner.CreateWalkInCustomer)
		customers.GET("", h.Partner.ListCustomers)
		customers.GET("/:id", h.Partner.GetCustomer)
		customers.DELETE("/:id", h.Partner.DeleteCustomer)
	}

	vendors := api.Group("/vendors")
	{
		vendors.POST("", h.Partner.CreateVendor)
		vendors.GET("", h.Partner.ListVendors)
		vendors.GET("/:id", h.Partner.GetVendor)
		vendors.DELETE("/:id", h.Partner.DeleteVendor)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("/sale", h.Invoice.CreateSale)
		invoices.POST("/purchase", h.Invoice.CreatePurchase)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/payments", h.Payment.ListByInvoice)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payment.Create)
		payments.DELETE("/:id", h.Payment.Delete)
	}

	stock := api.Group("/stock")
	{
		stock.POST("/adjust", h.Stock.Adjust)
		stock.GET("/branches/:branchId", h.Stock.ListBranchStock)
		stock.GET("/branches/:branchId/items/:itemId/movements", h.Stock.ListMovements)
	}

	accounting := api.Group("/accounting")
	{
		accounting.GET("/accounts", h.Accounting.ListAccounts)
		accounting.GET("/accounts/:id/ledger", h.Accounting.GetAccountLedger)
		accounting.GET("/entries/:reference", h.Accounting.GetEntriesByReference)
		accounting.GET("/trial-balance", h.Accounting.GetTrialBalance)
		accounting.POST("/tax-rates", h.Accounting.CreateTaxRate)
		accounting.GET("/tax-rates", h.Accounting.ListTaxRates)
		accounting.PUT("/tax-rates/:id", h.Accounting.UpdateTaxRate)
		accounting.DELETE("/tax-rates/:id", h.Accounting.DeleteTaxRate)
	}

	carts := api.Group("/carts")
	{
		carts.POST("/items", h.Cart.AddItem)
		carts.GET("", h.Cart.List)
		carts.POST("/lines/:lineId/increment", h.Cart.IncrementLine)
		carts.POST("/lines/:lineId/decrement", h.Cart.DecrementLine)
		carts.PUT("/lines/:lineId", h.Cart.SetLineQuantity)
		carts.DELETE("/lines/:lineId", h.Cart.RemoveLine)
		carts.POST("/:id/checkout", h.Cart.Checkout)
		carts.DELETE("/:id", h.Cart.Finish)
	}

	return engine
}
