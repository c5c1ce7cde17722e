package restapi

import (
	"fmt"
	"net/http/pprof"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const swaggerSpecPath = "/docs/swagger.yaml"

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(pages port.PageProvider, cfg *config.Config, netDef entity.NetworkDefinition, logger *zap.Logger) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	claimURL, err := BuildClaimEmbedURL(cfg.ClaimEmbed, netDef)
	if err != nil {
		return nil, err
	}

	pageHandler := NewPageHandler(pages, cfg.Contracts.NFTCollectionAddress, claimURL, cfg.ClaimEmbed.Height, logger)
	apiHandler := NewAPIHandler(pages, cfg.IsAuthorized, logger)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/", pageHandler.HomeHandler)
	router.GET("/token/:contractAddress/:tokenId", pageHandler.TokenPageHandler)
	router.GET("/buy", pageHandler.BuyHandler)
	router.GET("/claim", pageHandler.ClaimHandler)
	router.NoRoute(pageHandler.NotFoundHandler)

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/tokens", apiHandler.ListTokensHandler)
		v1.GET("/tokens/:tokenId", apiHandler.GetTokenHandler)
		v1.GET("/access/:walletAddress", apiHandler.CheckAccessHandler)
	}
	router.GET("/healthz", apiHandler.HealthHandler)

	if cfg.Swagger.Enabled {
		router.StaticFile(swaggerSpecPath, cfg.Swagger.SpecFile)
		router.GET(cfg.Swagger.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecPath)))
		logger.Info("Swagger UI enabled", zap.String("path", cfg.Swagger.Path+"/index.html"))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		}
		logger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	return router, nil
}
