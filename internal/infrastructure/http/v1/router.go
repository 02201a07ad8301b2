// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/domain/documents/quote"
	"invoport/internal/importer"
	"invoport/internal/infrastructure/http/v1/handlers"
	"invoport/internal/infrastructure/http/v1/middleware"
	"invoport/internal/infrastructure/storage/postgres"
	"invoport/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool     *postgres.Pool
	Txm      *postgres.TxManager
	Repos    importer.Repos
	Quotes   *quote.Service
	TaxRates *taxrate.Service
	UserID   id.ID
	Logger   *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware; the logger sits outside recovery so a
	// recovered panic still produces a request line
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	importHandler := handlers.NewImportHandler(cfg.Txm, cfg.Repos, cfg.UserID)
	api := router.Group("/api/v1")
	{
		imports := api.Group("/imports")
		imports.POST("", importHandler.Run)
		imports.GET("/verification", importHandler.Verification)

		quoteHandler := handlers.NewQuoteHandler(cfg.Quotes)
		api.POST("/quotes/:id/convert", quoteHandler.Convert)

		taxRateHandler := handlers.NewTaxRateHandler(cfg.TaxRates, cfg.Repos.TaxRates)
		api.PUT("/tax-rates/:id/default", taxRateHandler.SetDefault)
	}

	return router
}
